package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
	"microblogSync/internal/models"
	"microblogSync/internal/service"
)

type CreatePostRequest struct {
	Text           string `json:"text" validate:"required,max=280"`
	IdempotencyKey string `json:"idempotencyKey" validate:"omitempty,max=64"`
}

type PendingPostsResponse struct {
	Posts []models.PendingPost `json:"posts"`
	Total int                  `json:"total"`
}

// CreatePost queues a post; it is uploaded by the next sync pass.
func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	account, ok := AccountFromContext(r.Context())
	if !ok {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Неверные данные: "+err.Error(), http.StatusBadRequest)
		return
	}

	post, err := h.PostService.Compose(r.Context(), service.ComposeRequest{
		Account:        account,
		Text:           req.Text,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		status := statusFromError(err)
		if status == http.StatusInternalServerError {
			h.Logger.Error("ошибка при создании поста", zap.Error(err))
		}
		WriteError(w, err.Error(), status)
		return
	}

	WriteJSON(w, post, http.StatusCreated)
}

func (h *Handlers) GetPendingPosts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	account, ok := AccountFromContext(r.Context())
	if !ok {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	posts, err := h.PostService.ListPending(r.Context(), account)
	if err != nil {
		WriteError(w, err.Error(), statusFromError(err))
		return
	}

	WriteJSON(w, PendingPostsResponse{Posts: posts, Total: len(posts)}, http.StatusOK)
}
