package oauth

import (
	"fmt"
	"net/url"

	"microblogSync/internal/apperrors"
)

// Callback carries the query parameters of the provider's redirect.
type Callback struct {
	Token    string
	Verifier string
	Denied   string
}

func CallbackFromQuery(q url.Values) Callback {
	return Callback{
		Token:    q.Get("oauth_token"),
		Verifier: q.Get("oauth_verifier"),
		Denied:   q.Get("denied"),
	}
}

func ParseCallback(rawURL string) (Callback, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Callback{}, fmt.Errorf("%w: неверный callback URL: %v", apperrors.ErrAuthProtocol, err)
	}
	return CallbackFromQuery(u.Query()), nil
}
