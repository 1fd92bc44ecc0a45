// AngelaMos | 2026
// denylist.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bhashai/gateway/internal/core"
)

const denylistPrefix = "denylist:jti:"

// Denylist records revoked token ids until the token would have expired
// anyway, including the clock skew the verifier tolerates past exp.
type Denylist interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type redisDenylist struct {
	client *redis.Client
	skew   time.Duration
	now    func() time.Time
}

// NewDenylist keeps entries for skew beyond each token's exp. Pass the same
// skew the JWT verifier accepts.
func NewDenylist(client *redis.Client, skew time.Duration) Denylist {
	return &redisDenylist{client: client, skew: skew, now: time.Now}
}

func (d *redisDenylist) Revoke(
	ctx context.Context,
	jti string,
	expiresAt time.Time,
) error {
	ttl := expiresAt.Add(d.skew).Sub(d.now())
	if ttl <= 0 {
		return nil
	}

	if err := d.client.Set(ctx, denylistPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", storeFailure(err))
	}

	return nil
}

func (d *redisDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.client.Exists(ctx, denylistPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check denylist: %w", storeFailure(err))
	}

	return n > 0, nil
}

// storeFailure makes every Redis error look like an outage so callers fail
// closed instead of treating the token as valid.
func storeFailure(err error) error {
	err = core.ClassifyStoreError(err)
	if errors.Is(err, core.ErrTimeout) || errors.Is(err, core.ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", core.ErrUnavailable, err)
}
