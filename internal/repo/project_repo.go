package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"portfolio-digital/internal/domain"
)

// ProjectFilter 列表条件；零值表示后台不过滤的全量列表
type ProjectFilter struct {
	PublishedOnly bool
	FeaturedOnly  bool
	CategoryID    *uint
	Search        string
	Limit         int
}

// likeEscaper 让搜索词里的 % 和 _ 按字面匹配；转义符用 ! 以兼容 mysql 的反斜杠字面量
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

type ProjectRepo struct{ db *gorm.DB }

func (r *ProjectRepo) List(ctx context.Context, f ProjectFilter) ([]domain.Project, error) {
	q := r.db.WithContext(ctx).Model(&domain.Project{}).Preload("Category")
	if f.PublishedOnly {
		q = q.Where("is_published = ?", true)
	}
	if f.FeaturedOnly {
		q = q.Where("is_featured = ?", true)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
		q = q.Where("LOWER(title) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!' OR LOWER(technologies) LIKE ? ESCAPE '!'", like, like, like)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var out []domain.Project
	err := q.Order("created_at desc").Order("id desc").Find(&out).Error
	return out, storage(err, "list projects")
}

func (r *ProjectRepo) Get(ctx context.Context, id uint) (*domain.Project, error) {
	var p domain.Project
	if err := r.db.WithContext(ctx).Preload("Category").First(&p, id).Error; err != nil {
		return nil, notFound(err, "project")
	}
	return &p, nil
}

// ByGitHubURLs 以仓库地址为键；同一地址多行时取 id 最小的一行
func (r *ProjectRepo) ByGitHubURLs(ctx context.Context, urls []string) (map[string]*domain.Project, error) {
	out := make(map[string]*domain.Project, len(urls))
	if len(urls) == 0 {
		return out, nil
	}
	var rows []domain.Project
	if err := r.db.WithContext(ctx).Where("github_url IN ?", urls).Order("id asc").Find(&rows).Error; err != nil {
		return nil, storage(err, "load projects by github url")
	}
	for i := range rows {
		if _, ok := out[rows[i].GitHubURL]; !ok {
			out[rows[i].GitHubURL] = &rows[i]
		}
	}
	return out, nil
}

func (r *ProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	return storage(r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error, "create project")
}

func (r *ProjectRepo) Save(ctx context.Context, p *domain.Project) error {
	return storage(r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error, "save project")
}

// Delete 评论和点赞随项目一起删除；调用方负责放在同一事务里
func (r *ProjectRepo) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("project_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
		return storage(err, "delete project comments")
	}
	if err := db.Where("project_id = ?", id).Delete(&domain.Like{}).Error; err != nil {
		return storage(err, "delete project likes")
	}
	return affected(db.Delete(&domain.Project{}, id), "project")
}

func (r *ProjectRepo) Count(ctx context.Context, publishedOnly bool) (int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Project{})
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	var n int64
	err := q.Count(&n).Error
	return n, storage(err, "count projects")
}
