package studio

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/celesia91-cpu/invitation-maker-sub001/internal/project"
	"github.com/celesia91-cpu/invitation-maker-sub001/internal/share"
)

// handleBuildShare turns a project into a viewer URL.
func (s *Server) handleBuildShare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := userIDFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var p project.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	project.Normalize(&p)
	if err := project.Validate(&p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	url, err := s.urls.BuildViewerURL(p)
	if err != nil {
		var tooBig *share.PayloadTooLargeError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, err.Error())
			return
		}
		log.Printf("invitation-maker: build share url: %v", err)
		writeError(w, http.StatusInternalServerError, "cannot build share url")
		return
	}

	s.publishEvent(ctx, map[string]any{
		"type":    "share.created",
		"payload": map[string]any{"userId": userID, "length": len(url)},
	})

	writeJSON(w, http.StatusOK, ShareResponse{URL: url, Length: len(url)})
}

// handleShareQR renders a QR code PNG for a viewer URL. Public: the
// link itself is the secret.
func (s *Server) handleShareQR(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "missing url parameter")
		return
	}
	size := 256
	if v := r.URL.Query().Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 64 || n > 1024 {
			writeError(w, http.StatusBadRequest, "size must be between 64 and 1024")
			return
		}
		size = n
	}

	png, err := share.QRPNG(url, size)
	if err != nil {
		log.Printf("invitation-maker: qr encode: %v", err)
		writeError(w, http.StatusInternalServerError, "cannot encode qr")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
