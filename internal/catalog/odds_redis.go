package catalog

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/raphbet-wallet/internal/wallet"
)

// RedisOdds lê cotações publicadas por um feed externo.
// Espera chave "odds:{matchID}:1x2:{market}" => valor string com a odd, ex: "1.85"
type RedisOdds struct {
	Rdb *redis.Client
}

func NewRedisOdds(r *redis.Client) *RedisOdds { return &RedisOdds{Rdb: r} }

func oddsKey(matchID string, market wallet.Market) string {
	return fmt.Sprintf("odds:%s:1x2:%s", matchID, market)
}

func (o *RedisOdds) CurrentOdd(ctx context.Context, matchID string, market wallet.Market) (float64, bool, error) {
	val, err := o.Rdb.Get(ctx, oddsKey(matchID, market)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	odd, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false, fmt.Errorf("odd %q for %s: %w", val, matchID, err)
	}
	return odd, true, nil
}
