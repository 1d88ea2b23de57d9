package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/raphbet-wallet/internal/wallet"
)

// SnapshotStore guarda a última fotografia de cada sessão no Redis com TTL.
// Serve só para reabrir a sessão; não é fonte de verdade.
type SnapshotStore struct {
	R   *redis.Client
	TTL time.Duration
}

func NewSnapshotStore(r *redis.Client, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{R: r, TTL: ttl}
}

func keySession(sessionID string) string { return "raphbet.wallet:" + sessionID }

// Load devolve ok=false quando não há snapshot para a sessão
func (c *SnapshotStore) Load(ctx context.Context, sessionID string) (wallet.State, bool, error) {
	var st wallet.State
	b, err := c.R.Get(ctx, keySession(sessionID)).Bytes()
	if err == redis.Nil {
		return st, false, nil
	}
	if err != nil {
		return st, false, fmt.Errorf("load snapshot %s: %w", sessionID, err)
	}
	if err := json.Unmarshal(b, &st); err != nil {
		return st, false, fmt.Errorf("decode snapshot %s: %w", sessionID, err)
	}
	return st, true, nil
}

func (c *SnapshotStore) Save(ctx context.Context, st wallet.State) error {
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return c.R.Set(ctx, keySession(st.SessionID), b, c.TTL).Err()
}

func (c *SnapshotStore) Delete(ctx context.Context, sessionID string) error {
	return c.R.Del(ctx, keySession(sessionID)).Err()
}
