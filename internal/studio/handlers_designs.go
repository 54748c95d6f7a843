package studio

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/celesia91-cpu/invitation-maker-sub001/internal/project"
)

func (s *Server) handleListDesigns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := userIDFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, title, thumbnail, updated_at
		FROM designs
		WHERE owner_id = $1
		ORDER BY updated_at DESC
		LIMIT 200
	`, userID)
	if err != nil {
		log.Printf("invitation-maker: list designs: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	defer rows.Close()

	designs := []DesignSummary{}
	for rows.Next() {
		var d DesignSummary
		if err := rows.Scan(&d.ID, &d.Title, &d.Thumbnail, &d.UpdatedAt); err != nil {
			log.Printf("invitation-maker: list designs scan: %v", err)
			writeError(w, http.StatusInternalServerError, "database error")
			return
		}
		designs = append(designs, d)
	}
	if err := rows.Err(); err != nil {
		log.Printf("invitation-maker: list designs rows: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSON(w, http.StatusOK, designs)
}

func (s *Server) handleCreateDesign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := userIDFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var body struct {
		Title     string          `json:"title"`
		Thumbnail string          `json:"thumbnail"`
		Project   json.RawMessage `json:"project"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	body.Title = strings.TrimSpace(body.Title)
	if body.Title == "" || len(body.Title) > 200 {
		writeError(w, http.StatusBadRequest, "title must be between 1 and 200 characters")
		return
	}

	var p project.Project
	if err := json.Unmarshal(body.Project, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid project")
		return
	}
	project.Normalize(&p)
	if err := project.Validate(&p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	canonical, err := json.Marshal(p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	d := Design{
		ID:        uuid.NewString(),
		OwnerID:   userID,
		Title:     body.Title,
		Thumbnail: body.Thumbnail,
		Project:   canonical,
	}
	err = s.db.QueryRow(ctx, `
		INSERT INTO designs (id, owner_id, title, thumbnail, project)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at, updated_at
	`, d.ID, d.OwnerID, d.Title, d.Thumbnail, canonical).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		log.Printf("invitation-maker: create design: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	s.publishEvent(ctx, map[string]any{
		"type":    "design.created",
		"payload": map[string]any{"id": d.ID, "title": d.Title},
	})

	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleGetDesign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := userIDFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	designID := chi.URLParam(r, "id")
	if designID == "" {
		writeError(w, http.StatusBadRequest, "missing design id")
		return
	}

	var d Design
	err := s.db.QueryRow(ctx, `
		SELECT id, owner_id, title, thumbnail, project, created_at, updated_at
		FROM designs
		WHERE id = $1
	`, designID).Scan(&d.ID, &d.OwnerID, &d.Title, &d.Thumbnail, &d.Project, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "design not found")
		return
	}
	if err != nil {
		log.Printf("invitation-maker: get design: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if d.OwnerID != userID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleDeleteDesign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := userIDFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	designID := chi.URLParam(r, "id")
	if designID == "" {
		writeError(w, http.StatusBadRequest, "missing design id")
		return
	}

	var ownerID string
	err := s.db.QueryRow(ctx, `SELECT owner_id FROM designs WHERE id = $1`, designID).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "design not found")
		return
	}
	if err != nil {
		log.Printf("invitation-maker: delete design fetch: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if ownerID != userID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM designs WHERE id = $1`, designID); err != nil {
		log.Printf("invitation-maker: delete design: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	s.publishEvent(ctx, map[string]any{
		"type":    "design.deleted",
		"payload": map[string]any{"id": designID},
	})

	w.WriteHeader(http.StatusNoContent)
}
