package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"
	"microblogSync/internal/logger"
	"microblogSync/internal/models"
	"microblogSync/internal/service"
)

type SyncResponse struct {
	Report *models.SyncReport `json:"report"`
}

// RunSync runs a sync pass for the caller's account and waits for its report.
// Phase failures are part of the report, not of the status code.
func (h *Handlers) RunSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	account, ok := AccountFromContext(r.Context())
	if !ok {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	res := <-h.Scheduler.Submit(r.Context(), account)
	if res.Err != nil {
		if !errors.Is(res.Err, service.ErrPassInProgress) {
			logger.WithAccount(h.Logger, account).Warn("проход синхронизации не выполнен", zap.Error(res.Err))
		}
		WriteError(w, res.Err.Error(), statusFromError(res.Err))
		return
	}

	WriteJSON(w, SyncResponse{Report: res.Report}, http.StatusOK)
}
