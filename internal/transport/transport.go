// Package transport executes signed requests against the remote service.
package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"microblogSync/internal/apperrors"
	"microblogSync/internal/oauth"
)

// maxBodySize caps how much of a response is read into memory.
const maxBodySize = 8 << 20

// StatusError is a non-2xx response from the remote service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("сервис вернул статус %d", e.StatusCode)
}

type HTTPTransport struct {
	logger *zap.Logger
}

func NewHTTPTransport(logger *zap.Logger) *HTTPTransport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPTransport{logger: logger}
}

// Execute sends the request and returns the response body. 401 and 403 map to
// ErrAuth; any other failure maps to ErrNetwork. A zero timeout means no
// deadline beyond ctx.
func (t *HTTPTransport) Execute(ctx context.Context, sr *oauth.SignedRequest, timeout time.Duration) (string, error) {
	if sr == nil || sr.Request == nil || sr.Client == nil {
		return "", fmt.Errorf("%w: пустой подписанный запрос", apperrors.ErrSigning)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req := sr.Request.WithContext(ctx)
	started := time.Now()

	resp, err := sr.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s %s: %v", apperrors.ErrNetwork, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("%w: ошибка чтения ответа: %v", apperrors.ErrNetwork, err)
	}

	t.logger.Debug("запрос выполнен",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(started)),
	)

	statusErr := &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("%w: %w", apperrors.ErrAuth, statusErr)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", fmt.Errorf("%w: %w", apperrors.ErrNetwork, statusErr)
	}

	return string(body), nil
}
