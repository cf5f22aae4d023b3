package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"tiendaonline-web/internal/domain"
)

// ErrNotFound 会话不存在或已过期
var ErrNotFound = errors.New("session: not found")

// Store 以会话 ID 为键的服务端存储，每个会话只存一个 Identity，带 TTL。
type Store interface {
	Create(ctx context.Context, id domain.Identity) (string, error)
	Get(ctx context.Context, sid string) (*domain.Identity, error)
	Destroy(ctx context.Context, sid string) error
	TTL() time.Duration
}

func newSID() string { return uuid.NewString() }
