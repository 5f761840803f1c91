package repo

import (
	"context"

	"gorm.io/gorm"

	"portfolio-digital/internal/domain"
)

type EducationRepo struct{ db *gorm.DB }

func (r *EducationRepo) List(ctx context.Context, publishedOnly bool) ([]domain.Education, error) {
	q := r.db.WithContext(ctx).Model(&domain.Education{})
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	var out []domain.Education
	err := q.Order("start_date desc").Order("id desc").Find(&out).Error
	return out, storage(err, "list education")
}

func (r *EducationRepo) Get(ctx context.Context, id uint) (*domain.Education, error) {
	var e domain.Education
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		return nil, notFound(err, "education")
	}
	return &e, nil
}

func (r *EducationRepo) Create(ctx context.Context, e *domain.Education) error {
	return storage(r.db.WithContext(ctx).Create(e).Error, "create education")
}

func (r *EducationRepo) Save(ctx context.Context, e *domain.Education) error {
	return storage(r.db.WithContext(ctx).Save(e).Error, "save education")
}

func (r *EducationRepo) Delete(ctx context.Context, id uint) error {
	return affected(r.db.WithContext(ctx).Delete(&domain.Education{}, id), "education")
}

func (r *EducationRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Education{}).Count(&n).Error
	return n, storage(err, "count education")
}
