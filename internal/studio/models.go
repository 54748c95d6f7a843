package studio

import (
	"encoding/json"
	"time"
)

// Design is a saved invitation design owned by one user.
type Design struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"-"`
	Title     string          `json:"title"`
	Thumbnail string          `json:"thumbnail"`
	Project   json.RawMessage `json:"project,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// DesignSummary is the listing shape; the project blob stays out.
type DesignSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Thumbnail string    `json:"thumbnail"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UploadResponse is returned by the image upload endpoint.
type UploadResponse struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	ThumbURL string `json:"thumbUrl"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// ShareResponse is returned by the share endpoint.
type ShareResponse struct {
	URL    string `json:"url"`
	Length int    `json:"length"`
}
