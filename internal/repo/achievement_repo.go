package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"portfolio-digital/internal/domain"
)

type AchievementFilter struct {
	PublishedOnly bool
	FeaturedOnly  bool
	CategoryID    *uint
	Limit         int
}

type AchievementRepo struct{ db *gorm.DB }

func (r *AchievementRepo) List(ctx context.Context, f AchievementFilter) ([]domain.Achievement, error) {
	q := r.db.WithContext(ctx).Model(&domain.Achievement{}).Preload("Category")
	if f.PublishedOnly {
		q = q.Where("is_published = ?", true)
	}
	if f.FeaturedOnly {
		q = q.Where("is_featured = ?", true)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var out []domain.Achievement
	err := q.Order("date_achieved desc").Order("id desc").Find(&out).Error
	return out, storage(err, "list achievements")
}

func (r *AchievementRepo) Get(ctx context.Context, id uint) (*domain.Achievement, error) {
	var a domain.Achievement
	if err := r.db.WithContext(ctx).Preload("Category").First(&a, id).Error; err != nil {
		return nil, notFound(err, "achievement")
	}
	return &a, nil
}

func (r *AchievementRepo) Create(ctx context.Context, a *domain.Achievement) error {
	return storage(r.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error, "create achievement")
}

func (r *AchievementRepo) Save(ctx context.Context, a *domain.Achievement) error {
	return storage(r.db.WithContext(ctx).Omit(clause.Associations).Save(a).Error, "save achievement")
}

func (r *AchievementRepo) Delete(ctx context.Context, id uint) error {
	return affected(r.db.WithContext(ctx).Delete(&domain.Achievement{}, id), "achievement")
}

func (r *AchievementRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Achievement{}).Count(&n).Error
	return n, storage(err, "count achievements")
}
