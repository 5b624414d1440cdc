// Package apperrors holds the failure taxonomy shared by the OAuth session,
// the transport and the sync engine. Errors wrap one of these sentinels with
// fmt.Errorf("%w: ...") and are classified with errors.Is.
package apperrors

import "errors"

var (
	// ErrNetwork is a transport or I/O failure; retried on the next pass.
	ErrNetwork = errors.New("ошибка сети")
	// ErrParse is a malformed or unexpectedly shaped response body.
	ErrParse = errors.New("ошибка разбора ответа")
	// ErrAuth is a credential rejected by the remote service (HTTP 401/403).
	ErrAuth = errors.New("ошибка авторизации")
	// ErrConsistency means a local write did not match the expected remote count.
	ErrConsistency = errors.New("нарушение согласованности")
	// ErrAuthRequired means no credential exists for the account at all.
	ErrAuthRequired = errors.New("требуется авторизация")
	// ErrSigning means the request cannot be signed (no access token or no consumer keys).
	ErrSigning = errors.New("ошибка подписи запроса")
	// ErrAuthProtocol is an OAuth handshake protocol violation.
	ErrAuthProtocol = errors.New("нарушение протокола OAuth")

	ErrNotFound            = errors.New("не найдено")
	ErrIdempotencyConflict = errors.New("ключ идемпотентности уже использован")
)

// Kind returns the name of the taxonomy bucket err belongs to.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConsistency):
		return "consistency"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrAuth), errors.Is(err, ErrSigning), errors.Is(err, ErrAuthRequired), errors.Is(err, ErrAuthProtocol):
		return "auth"
	default:
		return "network"
	}
}
