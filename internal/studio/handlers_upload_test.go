package studio

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/celesia91-cpu/invitation-maker-sub001/internal/share"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func multipartImage(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func newUploadServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	srv := NewServer(&MockDB{}, nil, nil, share.NewURLBuilder("https://invites.example"), testSecret, dir)
	return srv, dir
}

func TestHandleUploadImage_Success(t *testing.T) {
	srv, dir := newUploadServer(t)
	r := srv.Router()

	body, contentType := multipartImage(t, "image", "bg.png", pngBytes(t, 320, 180))
	req := authedRequest(t, "POST", "/images/upload", body, "user-1")
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	var resp UploadResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Width != 320 || resp.Height != 180 {
		t.Errorf("dimensions = %dx%d, want 320x180", resp.Width, resp.Height)
	}
	if resp.ID == "" || resp.URL == "" || resp.ThumbURL == "" {
		t.Errorf("response missing fields: %+v", resp)
	}

	// Both the original and the thumbnail land in the upload dir.
	if _, err := os.Stat(filepath.Join(dir, resp.ID+".png")); err != nil {
		t.Errorf("original not written: %v", err)
	}
	thumbPath := filepath.Join(dir, resp.ID+"_thumb.png")
	f, err := os.Open(thumbPath)
	if err != nil {
		t.Fatalf("thumbnail not written: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("thumbnail not a png: %v", err)
	}
	if cfg.Width != thumbWidth {
		t.Errorf("thumbnail width = %d, want %d", cfg.Width, thumbWidth)
	}
}

func TestHandleUploadImage_RejectsUnsupportedType(t *testing.T) {
	srv, _ := newUploadServer(t)
	r := srv.Router()

	body, contentType := multipartImage(t, "image", "notes.txt", []byte("plain text"))
	req := authedRequest(t, "POST", "/images/upload", body, "user-1")
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnsupportedMediaType {
		t.Errorf("Expected 415, got %d", w.Code)
	}
}

func TestHandleUploadImage_RejectsMissingField(t *testing.T) {
	srv, _ := newUploadServer(t)
	r := srv.Router()

	body, contentType := multipartImage(t, "file", "bg.png", pngBytes(t, 4, 4))
	req := authedRequest(t, "POST", "/images/upload", body, "user-1")
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestHandleUploadImage_RejectsCorruptImage(t *testing.T) {
	srv, _ := newUploadServer(t)
	r := srv.Router()

	body, contentType := multipartImage(t, "image", "bg.png", []byte("not a png"))
	req := authedRequest(t, "POST", "/images/upload", body, "user-1")
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}
