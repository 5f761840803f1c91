package githubsync

import (
	"context"
	"time"
)

// Credential 一次同步使用的短期令牌；零值表示匿名访问
type Credential struct {
	Token     string
	ExpiresAt time.Time
}

func (c Credential) Valid(now time.Time) bool {
	return c.Token != "" && now.Before(c.ExpiresAt)
}

// CredentialSource 每次同步前获取新的凭据
type CredentialSource interface {
	Credential(ctx context.Context) (Credential, error)
}

// StaticToken 配置里的令牌，按 TTL 签出短期凭据
type StaticToken struct {
	Token string
	TTL   time.Duration
	Now   func() time.Time
}

func (s StaticToken) Credential(context.Context) (Credential, error) {
	if s.Token == "" {
		return Credential{}, nil
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	ttl := s.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return Credential{Token: s.Token, ExpiresAt: now().Add(ttl)}, nil
}
