package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/celesia91-cpu/invitation-maker-sub001/internal/project"
)

// Client talks to the invitation API over HTTP with bearer-token
// authentication. It implements Gateway.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient builds a gateway client for the API at baseURL. token may
// be empty for anonymous sessions.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetToken replaces the bearer token after a re-auth.
func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.http.Do(req)
}

// LoadSessionProject fetches GET /session. A 404 means no snapshot
// exists yet and is not an error.
func (c *Client) LoadSessionProject(ctx context.Context) (*project.Project, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/session", nil)
	if err != nil {
		return nil, &PersistenceError{Op: "loadSession", Err: err}
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, &PersistenceError{Op: "loadSession", Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusNoContent:
		return nil, nil
	case http.StatusUnauthorized:
		return nil, &AuthError{Reason: "session load rejected"}
	default:
		return nil, &PersistenceError{Op: "loadSession", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var p project.Project
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, &PersistenceError{Op: "loadSession", Err: err}
	}
	project.Normalize(&p)
	if err := project.Validate(&p); err != nil {
		return nil, &PersistenceError{Op: "loadSession", Err: err}
	}
	return &p, nil
}

// SaveSessionProject stores the snapshot with PUT /session.
func (c *Client) SaveSessionProject(ctx context.Context, p project.Project) error {
	body, err := json.Marshal(p)
	if err != nil {
		return &PersistenceError{Op: "saveSession", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/session", bytes.NewReader(body))
	if err != nil {
		return &PersistenceError{Op: "saveSession", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return &PersistenceError{Op: "saveSession", Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusUnauthorized:
		return &AuthError{Reason: "session save rejected"}
	default:
		return &PersistenceError{Op: "saveSession", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
}

// LoadUserDesigns fetches GET /designs.
func (c *Client) LoadUserDesigns(ctx context.Context) ([]DesignSummary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/designs", nil)
	if err != nil {
		return nil, &NetworkError{Op: "loadDesigns", Err: err}
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, &NetworkError{Op: "loadDesigns", Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, &AuthError{Reason: "designs listing rejected"}
	default:
		return nil, &NetworkError{Op: "loadDesigns", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var out []DesignSummary
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &NetworkError{Op: "loadDesigns", Err: err}
	}
	return out, nil
}

// UploadImage posts a multipart form with field "image" to
// POST /images/upload.
func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) (UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return UploadResult{}, &NetworkError{Op: "uploadImage", Err: err}
	}
	if _, err := io.Copy(part, r); err != nil {
		return UploadResult{}, &NetworkError{Op: "uploadImage", Err: err}
	}
	if err := mw.Close(); err != nil {
		return UploadResult{}, &NetworkError{Op: "uploadImage", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/upload", &buf)
	if err != nil {
		return UploadResult{}, &NetworkError{Op: "uploadImage", Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		return UploadResult{}, &NetworkError{Op: "uploadImage", Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusUnauthorized:
		return UploadResult{}, &AuthError{Reason: "upload rejected"}
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		return UploadResult{}, &ValidationError{Field: "image", Reason: fmt.Sprintf("status %d", resp.StatusCode)}
	default:
		return UploadResult{}, &NetworkError{Op: "uploadImage", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var out UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return UploadResult{}, &NetworkError{Op: "uploadImage", Err: err}
	}
	return out, nil
}
