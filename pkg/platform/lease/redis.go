package lease

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "lease:"

// releaseScript deletes the key when the hold is over, or trims its TTL to the
// remaining minimum hold. Either only applies while the caller's token owns the key.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) ~= ARGV[1] then
	return 0
end
local remaining = tonumber(ARGV[2])
if remaining <= 0 then
	return redis.call("DEL", KEYS[1])
end
return redis.call("PEXPIRE", KEYS[1], remaining)
`)

// Redis holds leases as SET NX PX keys.
type Redis struct {
	client redis.UniversalClient
}

func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

func (r *Redis) TryLock(ctx context.Context, l Lock) (bool, error) {
	return r.client.SetNX(ctx, redisKeyPrefix+l.Name, l.Token, l.AtMost).Result()
}

func (r *Redis) Unlock(ctx context.Context, l Lock, now time.Time) error {
	remaining := l.ReleaseAt().Sub(now).Milliseconds()
	return releaseScript.Run(ctx, r.client, []string{redisKeyPrefix + l.Name}, l.Token, remaining).Err()
}
