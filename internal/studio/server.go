// Package studio is the HTTP persistence service behind the invitation
// editor: session snapshots, saved designs, image uploads, share links
// and a websocket feed of change events.
package studio

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/celesia91-cpu/invitation-maker-sub001/internal/share"
)

type Server struct {
	db        DB
	rdb       *redis.Client
	hub       *Hub
	urls      *share.URLBuilder
	jwtSecret []byte
	uploadDir string
}

func NewServer(db DB, rdb *redis.Client, hub *Hub, urls *share.URLBuilder, jwtSecret []byte, uploadDir string) *Server {
	return &Server{
		db:        db,
		rdb:       rdb,
		hub:       hub,
		urls:      urls,
		jwtSecret: jwtSecret,
		uploadDir: uploadDir,
	}
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/health", s.handleHealth)
	r.Get("/ws", s.handleWS)
	r.Get("/share/qr", s.handleShareQR)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Get("/session", s.handleGetSession)
		r.Put("/session", s.handlePutSession)

		r.Get("/designs", s.handleListDesigns)
		r.Post("/designs", s.handleCreateDesign)
		r.Get("/designs/{id}", s.handleGetDesign)
		r.Delete("/designs/{id}", s.handleDeleteDesign)

		r.Post("/images/upload", s.handleUploadImage)
		r.Post("/share", s.handleBuildShare)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "invitation-studio",
	})
}
