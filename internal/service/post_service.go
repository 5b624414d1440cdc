package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"microblogSync/internal/apperrors"
	"microblogSync/internal/models"
	"microblogSync/internal/repository"
)

// MaxPostLength is the longest post the remote service accepts, in characters.
const MaxPostLength = 280

var ErrInvalidPost = errors.New("неверный текст поста")

type ComposeRequest struct {
	Account        string
	Text           string
	IdempotencyKey string
}

type PostService interface {
	Compose(ctx context.Context, req ComposeRequest) (*models.PendingPost, error)
	ListPending(ctx context.Context, account string) ([]models.PendingPost, error)
}

type postService struct {
	pendingRepo repository.PendingPostRepository
}

func NewPostService(pendingRepo repository.PendingPostRepository) PostService {
	return &postService{pendingRepo: pendingRepo}
}

// Compose queues a post for the next sync pass. A repeated idempotency key is
// rejected while the first post is still queued.
func (p *postService) Compose(ctx context.Context, req ComposeRequest) (*models.PendingPost, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: текст пуст", ErrInvalidPost)
	}
	if utf8.RuneCountInString(text) > MaxPostLength {
		return nil, fmt.Errorf("%w: длиннее %d символов", ErrInvalidPost, MaxPostLength)
	}

	if req.IdempotencyKey != "" {
		ok, err := p.pendingRepo.CheckIdempotencyKey(ctx, req.Account, req.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperrors.ErrIdempotencyConflict
		}
	}

	post := &models.PendingPost{
		Account:        req.Account,
		IdempotencyKey: req.IdempotencyKey,
		Text:           text,
	}

	if err := p.pendingRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

func (p *postService) ListPending(ctx context.Context, account string) ([]models.PendingPost, error) {
	return p.pendingRepo.ListPending(ctx, account)
}
