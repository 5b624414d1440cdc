package oauth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"microblogSync/internal/apperrors"
	"microblogSync/internal/config"
)

// ConsumerProvider implements Provider on top of dghubble/oauth1.
type ConsumerProvider struct {
	config  *oauth1.Config
	timeout time.Duration
}

func NewConsumerProvider(cfg config.OAuth, timeout time.Duration) (*ConsumerProvider, error) {
	if cfg.ConsumerKey == "" || cfg.ConsumerSecret == "" {
		return nil, fmt.Errorf("%w: не заданы OAUTH_CONSUMER_KEY / OAUTH_CONSUMER_SECRET", apperrors.ErrSigning)
	}

	oauthConfig := oauth1.NewConfig(cfg.ConsumerKey, cfg.ConsumerSecret)
	oauthConfig.Endpoint = oauth1.Endpoint{
		RequestTokenURL: cfg.RequestTokenURL,
		AuthorizeURL:    cfg.AuthorizeURL,
		AccessTokenURL:  cfg.AccessTokenURL,
	}
	oauthConfig.HTTPClient = &http.Client{Timeout: timeout}

	return &ConsumerProvider{config: oauthConfig, timeout: timeout}, nil
}

type tokenPair struct {
	token, secret string
	err           error
}

// RequestToken runs the exchange in the background; when ctx ends first the
// result is abandoned.
func (p *ConsumerProvider) RequestToken(ctx context.Context, callbackURL string) (string, string, error) {
	cfg := *p.config
	cfg.CallbackURL = callbackURL

	return await(ctx, func() tokenPair {
		token, secret, err := cfg.RequestToken()
		return tokenPair{token, secret, err}
	})
}

func (p *ConsumerProvider) AuthorizationURL(requestToken string) (string, error) {
	u, err := p.config.AuthorizationURL(requestToken)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (p *ConsumerProvider) AccessToken(ctx context.Context, requestToken, requestSecret, verifier string) (string, string, error) {
	return await(ctx, func() tokenPair {
		token, secret, err := p.config.AccessToken(requestToken, requestSecret, verifier)
		return tokenPair{token, secret, err}
	})
}

func (p *ConsumerProvider) Client(ctx context.Context, accessToken, accessSecret string) *http.Client {
	client := p.config.Client(ctx, oauth1.NewToken(accessToken, accessSecret))
	client.Timeout = p.timeout
	return client
}

func await(ctx context.Context, call func() tokenPair) (string, string, error) {
	done := make(chan tokenPair, 1)
	go func() {
		done <- call()
	}()

	select {
	case <-ctx.Done():
		return "", "", fmt.Errorf("%w: %v", apperrors.ErrNetwork, ctx.Err())
	case res := <-done:
		if res.err != nil {
			return "", "", classifyProviderError(res.err)
		}
		return res.token, res.secret, nil
	}
}

// classifyProviderError maps oauth1 errors onto the shared taxonomy. oauth1
// reports HTTP failures as "oauth1: invalid status <code>".
func classifyProviderError(err error) error {
	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", apperrors.ErrNetwork, err)
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "status 401"), strings.Contains(msg, "status 403"):
		return fmt.Errorf("%w: %v", apperrors.ErrAuth, err)
	case strings.Contains(msg, "invalid status"), strings.Contains(msg, "error reading Body"):
		return fmt.Errorf("%w: %v", apperrors.ErrNetwork, err)
	default:
		return fmt.Errorf("%w: %v", apperrors.ErrAuthProtocol, err)
	}
}
