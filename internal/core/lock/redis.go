// Package lock 跨进程互斥锁：redis SET NX + 令牌校验释放
package lock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrHeld 锁已被其他持有者占用
var ErrHeld = errors.New("lock held by another owner")

// 只有令牌匹配才删除，避免误删别人续上的锁
var release = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Locker struct {
	RDB    *redis.Client
	Prefix string
}

func New(addr, pass string, db int) *Locker {
	return &Locker{
		RDB:    redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		Prefix: "portfolio:lock:",
	}
}

// Acquire 成功返回释放函数；锁被占用返回 ErrHeld
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	k := l.Prefix + key
	token := uuid.NewString()
	ok, err := l.RDB.SetNX(ctx, k, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrHeld
	}
	return func(ctx context.Context) error {
		return release.Run(ctx, l.RDB, []string{k}, token).Err()
	}, nil
}

func (l *Locker) Close() error { return l.RDB.Close() }
