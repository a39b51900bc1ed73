package locker

import (
	"context"
	"errors"
	"time"

	"github.com/go-redsync/redsync/v4"
)

var ErrLocked = errors.New("lock is held by another request")

// Redsync hands out per-key distributed mutexes.
type Redsync struct {
	rs     *redsync.Redsync
	expiry time.Duration
}

func NewRedsync(rs *redsync.Redsync, expiry time.Duration) *Redsync {
	if expiry <= 0 {
		expiry = 30 * time.Second
	}
	return &Redsync{rs, expiry}
}

// Lock acquires key and returns the release func.
func (l *Redsync) Lock(ctx context.Context, key string) (func(), error) {
	mutex := l.rs.NewMutex(key, redsync.WithExpiry(l.expiry))
	if err := mutex.LockContext(ctx); err != nil {
		return nil, errors.Join(ErrLocked, err)
	}

	return func() {
		// nolint:errcheck
		mutex.UnlockContext(context.Background())
	}, nil
}
