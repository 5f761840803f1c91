package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"portfolio-digital/internal/domain"
	"portfolio-digital/internal/repo"
	"portfolio-digital/pkg/utils"
)

const (
	minPasswordLen = 6
	// bcrypt 只接受 72 字节以内的输入
	maxPasswordBytes = 72
)

type NewAccount struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	IsAdmin   bool
}

// Accounts 本地账号的凭据管理
type Accounts struct {
	store *repo.Store
	log   *zap.Logger
}

func NewAccounts(store *repo.Store, log *zap.Logger) *Accounts {
	return &Accounts{store: store, log: log}
}

// Verify 只有本地账号且存在哈希时才可能通过
func (a *Accounts) Verify(u *domain.User, candidate string) bool {
	acc, ok := u.Account().(domain.LocalAccount)
	if !ok || acc.PasswordHash == "" {
		return false
	}
	return utils.CheckPassword(candidate, acc.PasswordHash)
}

func (a *Accounts) SetPassword(u *domain.User, plaintext string) error {
	if domain.RuneLen(plaintext) < minPasswordLen {
		return domain.Invalid("password must be at least %d characters", minPasswordLen)
	}
	if len(plaintext) > maxPasswordBytes {
		return domain.Invalid("password must be at most %d bytes", maxPasswordBytes)
	}
	h, err := utils.HashPassword(plaintext)
	if err != nil {
		return err
	}
	u.PasswordHash = h
	return nil
}

// CreateLocalAccount 不做邮箱查重；唯一索引冲突由仓储转换为 ErrDuplicateEmail
func (a *Accounts) CreateLocalAccount(ctx context.Context, in NewAccount) (*domain.User, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, domain.Invalid("email is required")
	}
	u := &domain.User{
		ID:        utils.NewID(),
		Email:     &email,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		IsAdmin:   in.IsAdmin,
		AuthType:  domain.AuthLocal,
	}
	if err := a.SetPassword(u, in.Password); err != nil {
		return nil, err
	}
	if err := a.store.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Register 公开注册，永远不会得到管理员
func (a *Accounts) Register(ctx context.Context, in NewAccount) (*domain.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	if !strings.Contains(in.Email, "@") {
		return nil, domain.Invalid("invalid email")
	}
	if domain.RuneLen(in.Password) < minPasswordLen {
		return nil, domain.Invalid("password must be at least %d characters", minPasswordLen)
	}
	exists, err := a.store.Users.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateEmail
	}
	in.IsAdmin = false
	u, err := a.CreateLocalAccount(ctx, in)
	if err != nil {
		return nil, err
	}
	a.log.Info("account registered", zap.String("user_id", u.ID))
	return u, nil
}

func (a *Accounts) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := a.store.Users.FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !a.Verify(u, password) {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}

func (a *Accounts) Get(ctx context.Context, id string) (*domain.User, error) {
	return a.store.Users.FindByID(ctx, id)
}

// ProvisionAdmin 幂等：存在则提升为管理员并重置密码，否则创建
func (a *Accounts) ProvisionAdmin(ctx context.Context, in NewAccount) (created bool, user *domain.User, err error) {
	in.Email = strings.TrimSpace(in.Email)
	err = a.store.Transaction(ctx, func(tx *repo.Store) error {
		txa := &Accounts{store: tx, log: a.log}
		u, e := tx.Users.FindByEmail(ctx, in.Email)
		switch {
		case errors.Is(e, domain.ErrNotFound):
			in.IsAdmin = true
			u, e = txa.CreateLocalAccount(ctx, in)
			if e != nil {
				return e
			}
			created, user = true, u
			return nil
		case e != nil:
			return e
		}
		u.IsAdmin = true
		if in.FirstName != "" {
			u.FirstName = strings.TrimSpace(in.FirstName)
		}
		if in.LastName != "" {
			u.LastName = strings.TrimSpace(in.LastName)
		}
		if e = txa.SetPassword(u, in.Password); e != nil {
			return e
		}
		if e = tx.Users.Update(ctx, u); e != nil {
			return e
		}
		user = u
		return nil
	})
	if err != nil {
		return false, nil, err
	}
	a.log.Info("admin provisioned", zap.String("user_id", user.ID), zap.Bool("created", created))
	return created, user, nil
}
