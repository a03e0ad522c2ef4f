package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"aivenger/internal/avatar"
	"aivenger/internal/domain"
)

// maxUploadBytes caps the multipart source image payload.
const maxUploadBytes = 10 << 20

type generationDTO struct {
	ID                string  `json:"id"`
	UserID            string  `json:"user_id"`
	OriginalImageURL  string  `json:"original_image_url"`
	GeneratedImageURL *string `json:"generated_image_url"`
	Status            string  `json:"status"`
	ErrorMessage      *string `json:"error_message"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

func toGenerationDTO(g domain.Generation) generationDTO {
	return generationDTO{
		ID:                g.ID,
		UserID:            g.UserID,
		OriginalImageURL:  g.OriginalImageURL,
		GeneratedImageURL: g.GeneratedImageURL,
		Status:            string(g.Status),
		ErrorMessage:      g.ErrorMessage,
		CreatedAt:         g.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         g.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// GenerationsCreate accepts a multipart photo upload and runs the generation
// workflow synchronously within this request.
func (a *App) GenerationsCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, avatar.CodeUnauthorized, "missing user context")
		return
	}

	var (
		image    []byte
		mimeType string
		filename string
	)
	if err := r.ParseMultipartForm(maxUploadBytes); err == nil {
		if file, header, err := r.FormFile("image"); err == nil {
			defer file.Close()
			data, readErr := io.ReadAll(io.LimitReader(file, maxUploadBytes))
			if readErr != nil {
				a.error(w, http.StatusBadRequest, avatar.CodeUploadFailed, "failed to read image")
				return
			}
			image = data
			filename = header.Filename
			mimeType = header.Header.Get("Content-Type")
		}
	}
	if len(image) > 0 && mimeType == "" {
		mimeType = http.DetectContentType(image)
	}

	result := a.Avatars.Generate(r.Context(), userID, image, mimeType, filename)
	if !result.Success {
		a.error(w, statusForCode(result.Code), result.Code, result.Message)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"success":           true,
		"generation":        toGenerationDTO(*result.Generation),
		"remaining_credits": result.RemainingCredits,
	})
}

// GenerationsList returns the caller's generations, newest first.
func (a *App) GenerationsList(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, avatar.CodeUnauthorized, "missing user context")
		return
	}

	var status *domain.GenerationStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := domain.ParseGenerationStatus(raw)
		if err != nil {
			a.error(w, http.StatusBadRequest, avatar.CodeDatabaseError, "invalid status filter")
			return
		}
		status = &parsed
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			a.error(w, http.StatusBadRequest, avatar.CodeDatabaseError, "invalid limit")
			return
		}
		limit = parsed
	}

	generations, err := a.Avatars.List(r.Context(), userID, status, limit)
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("list generations failed")
		a.error(w, http.StatusInternalServerError, avatar.CodeDatabaseError, "failed to fetch generations")
		return
	}

	items := make([]generationDTO, 0, len(generations))
	for _, g := range generations {
		items = append(items, toGenerationDTO(g))
	}
	a.json(w, http.StatusOK, map[string]any{
		"generations": items,
		"count":       len(items),
	})
}

// GenerationsDelete removes a generation's blobs and record, scoped to the
// owning identity. Missing and foreign ids both answer 404.
func (a *App) GenerationsDelete(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, avatar.CodeUnauthorized, "missing user context")
		return
	}
	id := chi.URLParam(r, "id")
	if id == "" {
		a.error(w, http.StatusBadRequest, avatar.CodeDatabaseError, "id required")
		return
	}

	if err := a.Avatars.Delete(r.Context(), id, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, avatar.CodeDatabaseError, "not found")
			return
		}
		a.Logger.Error().Err(err).Str("generation_id", id).Msg("delete generation failed")
		a.error(w, http.StatusInternalServerError, avatar.CodeDatabaseError, "failed to delete")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"success": true})
}

func statusForCode(code avatar.ErrorCode) int {
	switch code {
	case avatar.CodeUnauthorized:
		return http.StatusUnauthorized
	case avatar.CodeInsufficientCredits:
		return http.StatusForbidden
	case avatar.CodeUploadFailed:
		return http.StatusBadRequest
	case avatar.CodeAIGenerationFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
