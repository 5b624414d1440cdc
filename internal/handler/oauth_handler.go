package handlers

import (
	"net/http"

	"go.uber.org/zap"
	"microblogSync/internal/logger"
	"microblogSync/internal/oauth"
)

type BeginOAuthResponse struct {
	AuthorizationURL string `json:"authorizationUrl"`
}

type OAuthCallbackResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	Account     string `json:"account"`
}

func (h *Handlers) BeginOAuth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	authURL, err := h.OAuthService.Begin(r.Context())
	if err != nil {
		h.Logger.Warn("не удалось начать авторизацию", zap.Error(err))
		WriteError(w, "Не удалось начать авторизацию: "+err.Error(), statusFromError(err))
		return
	}

	WriteJSON(w, BeginOAuthResponse{AuthorizationURL: authURL}, http.StatusOK)
}

// OAuthCallback finishes the handshake from the provider's redirect and
// returns a session token for the local API.
func (h *Handlers) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cb := oauth.CallbackFromQuery(r.URL.Query())
	if cb.Token == "" && cb.Denied == "" {
		WriteError(w, "Отсутствует oauth_token", http.StatusBadRequest)
		return
	}

	cred, err := h.OAuthService.Complete(r.Context(), cb)
	if err != nil {
		h.Logger.Warn("авторизация не завершена", zap.Error(err))
		WriteError(w, err.Error(), statusFromError(err))
		return
	}

	token, err := h.AuthService.IssueToken(cred.Account)
	if err != nil {
		WriteError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := OAuthCallbackResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		Account:     logger.MaskAccount(cred.Account),
	}

	WriteJSON(w, response, http.StatusOK)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	account, ok := AccountFromContext(r.Context())
	if !ok {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	if err := h.OAuthService.Logout(r.Context(), account); err != nil {
		WriteError(w, err.Error(), statusFromError(err))
		return
	}

	WriteJSON(w, MessageResponse{Message: "Выход выполнен"}, http.StatusOK)
}
