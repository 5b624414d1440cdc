package handlers

import (
	"net/http"
	"strconv"

	"microblogSync/internal/models"
)

type PaginationResponse struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type TimelineResponse struct {
	Records    []models.TimelineRecord `json:"records"`
	Pagination PaginationResponse      `json:"pagination"`
}

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	account, ok := AccountFromContext(r.Context())
	if !ok {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	profile, err := h.TimelineService.GetProfile(r.Context(), account)
	if err != nil {
		WriteError(w, err.Error(), statusFromError(err))
		return
	}

	WriteJSON(w, profile, http.StatusOK)
}

func (h *Handlers) GetTimeline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	account, ok := AccountFromContext(r.Context())
	if !ok {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	// Pagination parameters
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	records, total, err := h.TimelineService.GetTimeline(r.Context(), account, page, limit)
	if err != nil {
		WriteError(w, err.Error(), statusFromError(err))
		return
	}

	response := TimelineResponse{
		Records: records,
		Pagination: PaginationResponse{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + limit - 1) / limit,
		},
	}

	WriteJSON(w, response, http.StatusOK)
}
