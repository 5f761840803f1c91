package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"portfolio-digital/internal/domain"
)

// Store 聚合所有实体仓储；事务内通过 Transaction 拿到绑定 tx 的新 Store
type Store struct {
	db *gorm.DB

	Users        *UserRepo
	Categories   *CategoryRepo
	Projects     *ProjectRepo
	Achievements *AchievementRepo
	Education    *EducationRepo
	Comments     *CommentRepo
	Likes        *LikeRepo
	About        *AboutRepo
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:           db,
		Users:        &UserRepo{db: db},
		Categories:   &CategoryRepo{db: db},
		Projects:     &ProjectRepo{db: db},
		Achievements: &AchievementRepo{db: db},
		Education:    &EducationRepo{db: db},
		Comments:     &CommentRepo{db: db},
		Likes:        &LikeRepo{db: db},
		About:        &AboutRepo{db: db},
	}
}

func (s *Store) DB() *gorm.DB { return s.db }

// Transaction fn 内只能使用传入的 tx Store，返回错误即回滚
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(domain.Models()...)
}

func isDupKey(err error) bool {
	// 不依赖 gorm.ErrDuplicatedKey，三种驱动的报错文本都能覆盖
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return storage(err, "load "+what)
}

func storage(err error, op string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorage, err)
}

// affected 删除/更新 0 行视为不存在
func affected(res *gorm.DB, what string) error {
	if res.Error != nil {
		return storage(res.Error, "write "+what)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return nil
}
