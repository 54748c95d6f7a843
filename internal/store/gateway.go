// Package store is the persistence gateway: the narrow interface the
// editor uses to reach an external store, plus the debounced autosave
// that feeds it. Concrete backends are an HTTP API, redis, or a local
// file; the editor never talks HTTP directly.
package store

import (
	"context"
	"io"
	"time"

	"github.com/celesia91-cpu/invitation-maker-sub001/internal/project"
)

// DesignSummary is one entry of the user's saved-designs listing.
type DesignSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Thumbnail string    `json:"thumbnail"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UploadResult describes a stored image after upload.
type UploadResult struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	ThumbURL string `json:"thumbUrl"`
	NatW     int    `json:"width"`
	NatH     int    `json:"height"`
}

// Gateway is the full remote-store surface.
type Gateway interface {
	// LoadSessionProject fetches the session snapshot; (nil, nil)
	// means no snapshot exists yet.
	LoadSessionProject(ctx context.Context) (*project.Project, error)

	// SaveSessionProject stores the snapshot; idempotent.
	SaveSessionProject(ctx context.Context, p project.Project) error

	// LoadUserDesigns lists the authenticated user's saved designs.
	LoadUserDesigns(ctx context.Context) ([]DesignSummary, error)

	// UploadImage stores an image and returns its served URLs and
	// natural dimensions.
	UploadImage(ctx context.Context, filename string, r io.Reader) (UploadResult, error)
}

// Sessions is the session-snapshot subset of the gateway, for backends
// that only hold the one blob (redis, a local file).
type Sessions interface {
	Load(ctx context.Context) (*project.Project, error)
	Save(ctx context.Context, p project.Project) error
}
