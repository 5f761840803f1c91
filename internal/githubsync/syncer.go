package githubsync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"portfolio-digital/internal/core/lock"
	"portfolio-digital/internal/domain"
)

// Locker 跨进程互斥；nil 时只做进程内合并
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error)
}

// Syncer 串行化同步：进程内 singleflight 合并重复触发，
// 多实例之间靠 redis 锁，拿不到锁返回 ErrConflict。
type Syncer struct {
	rec     *Reconciler
	creds   CredentialSource
	locker  Locker
	lockTTL time.Duration
	now     func() time.Time
	log     *zap.Logger
	sf      singleflight.Group
}

func NewSyncer(rec *Reconciler, creds CredentialSource, locker Locker, lockTTL time.Duration, log *zap.Logger) *Syncer {
	if lockTTL <= 0 {
		lockTTL = 2 * time.Minute
	}
	return &Syncer{rec: rec, creds: creds, locker: locker, lockTTL: lockTTL, now: time.Now, log: log}
}

func (s *Syncer) Sync(ctx context.Context) (Result, error) {
	v, err, shared := s.sf.Do(s.rec.owner, func() (any, error) {
		// 请求取消不打断已开始的同步，由 lockTTL 兜底
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.lockTTL)
		defer cancel()
		return s.run(runCtx)
	})
	if shared {
		s.log.Debug("github sync coalesced")
	}
	res, _ := v.(Result)
	return res, err
}

func (s *Syncer) run(ctx context.Context) (Result, error) {
	if s.locker != nil {
		unlock, err := s.locker.Acquire(ctx, "github-sync:"+s.rec.owner, s.lockTTL)
		if errors.Is(err, lock.ErrHeld) {
			return Result{Message: "A sync is already running"}, fmt.Errorf("github sync already running: %w", domain.ErrConflict)
		}
		if err != nil {
			// redis 不可用时降级为仅进程内串行
			s.log.Warn("sync lock unavailable", zap.Error(err))
		} else {
			defer func() {
				if err := unlock(context.WithoutCancel(ctx)); err != nil {
					s.log.Warn("sync unlock failed", zap.Error(err))
				}
			}()
		}
	}
	return s.rec.Run(ctx, s.credential(ctx))
}

// credential 过期或获取失败都降级为匿名访问
func (s *Syncer) credential(ctx context.Context) Credential {
	if s.creds == nil {
		return Credential{}
	}
	cred, err := s.creds.Credential(ctx)
	if err != nil {
		s.log.Warn("github credential unavailable", zap.Error(err))
		return Credential{}
	}
	if cred.Token != "" && !cred.Valid(s.now()) {
		s.log.Warn("github credential expired, using unauthenticated access", zap.Time("expires_at", cred.ExpiresAt))
		return Credential{}
	}
	return cred
}
