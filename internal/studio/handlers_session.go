package studio

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5"

	"github.com/celesia91-cpu/invitation-maker-sub001/internal/project"
)

const maxSessionBytes = 4 << 20

// handleGetSession returns the caller's session snapshot; 404 when no
// snapshot has been saved yet.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := userIDFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var raw []byte
	err := s.db.QueryRow(ctx, `
		SELECT project
		FROM sessions
		WHERE user_id = $1
	`, userID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "no session snapshot")
		return
	}
	if err != nil {
		log.Printf("invitation-maker: get session: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

// handlePutSession validates and stores the full project snapshot.
// Idempotent per user.
func (s *Server) handlePutSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := userIDFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxSessionBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read body")
		return
	}
	if len(body) > maxSessionBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "snapshot too large")
		return
	}

	var p project.Project
	if err := json.Unmarshal(body, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	project.Normalize(&p)
	if err := project.Validate(&p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	canonical, err := json.Marshal(p)
	if err != nil {
		log.Printf("invitation-maker: marshal session: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if _, err := s.db.Exec(ctx, `
		INSERT INTO sessions (user_id, project, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id)
		DO UPDATE SET project = EXCLUDED.project, updated_at = now()
	`, userID, canonical); err != nil {
		log.Printf("invitation-maker: put session: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	s.publishEvent(ctx, map[string]any{
		"type":    "session.saved",
		"payload": map[string]any{"userId": userID},
	})

	w.WriteHeader(http.StatusNoContent)
}

// publishEvent pushes an event onto the broadcast channel feeding the
// websocket hub. Best-effort.
func (s *Server) publishEvent(ctx context.Context, event map[string]any) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("invitation-maker: marshal event: %v", err)
		return
	}
	if err := s.rdb.Publish(ctx, "broadcast", string(data)).Err(); err != nil {
		log.Printf("invitation-maker: publish event: %v", err)
	}
}
