package service

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"portfolio-digital/internal/domain"
	"portfolio-digital/internal/repo"
)

// ImageStore 处理后的图片存取；Delete 失败只记日志
type ImageStore interface {
	SaveImage(ctx context.Context, folder, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

// Editor 后台内容维护。更新只接受显式列出的可写字段，id 与时间戳永远不由客户端写入。
type Editor struct {
	store  *repo.Store
	images ImageStore
	log    *zap.Logger
}

func NewEditor(store *repo.Store, images ImageStore, log *zap.Logger) *Editor {
	return &Editor{store: store, images: images, log: log}
}

type ProjectInput struct {
	Title        string `json:"title" validate:"required,max=200"`
	Description  string `json:"description" validate:"required"`
	Content      string `json:"content"`
	DemoURL      string `json:"demoUrl" validate:"omitempty,http_url,max=500"`
	GitHubURL    string `json:"githubUrl" validate:"omitempty,http_url,max=500"`
	Technologies string `json:"technologies" validate:"max=500"`
	CategoryID   *uint  `json:"categoryId"`
	IsPublished  bool   `json:"isPublished"`
	IsFeatured   bool   `json:"isFeatured"`
}

func (in ProjectInput) normalize() (ProjectInput, error) {
	trim(&in.Title, &in.Description, &in.DemoURL, &in.GitHubURL, &in.Technologies)
	if err := check(in); err != nil {
		return in, err
	}
	in.CategoryID = categoryRef(in.CategoryID)
	return in, nil
}

func (in ProjectInput) apply(p *domain.Project) {
	p.Title = in.Title
	p.Description = in.Description
	p.Content = in.Content
	p.DemoURL = in.DemoURL
	p.GitHubURL = in.GitHubURL
	p.Technologies = in.Technologies
	p.CategoryID = in.CategoryID
	p.Category = nil
	p.IsPublished = in.IsPublished
	p.IsFeatured = in.IsFeatured
}

type AchievementInput struct {
	Title          string `json:"title" validate:"required,max=200"`
	Description    string `json:"description" validate:"required"`
	Organization   string `json:"organization" validate:"max=200"`
	CertificateURL string `json:"certificateUrl" validate:"omitempty,http_url,max=500"`
	DateAchieved   string `json:"dateAchieved" validate:"required,datetime=2006-01-02"`
	CategoryID     *uint  `json:"categoryId"`
	IsPublished    bool   `json:"isPublished"`
	IsFeatured     bool   `json:"isFeatured"`
}

func (in AchievementInput) build(a *domain.Achievement) error {
	trim(&in.Title, &in.Description, &in.Organization, &in.CertificateURL, &in.DateAchieved)
	if err := check(in); err != nil {
		return err
	}
	date, err := parseDate(in.DateAchieved)
	if err != nil {
		return err
	}
	a.Title, a.Description, a.Organization, a.CertificateURL = in.Title, in.Description, in.Organization, in.CertificateURL
	a.DateAchieved = *date
	a.CategoryID = categoryRef(in.CategoryID)
	a.Category = nil
	a.IsPublished, a.IsFeatured = in.IsPublished, in.IsFeatured
	return nil
}

type EducationInput struct {
	Institution  string `json:"institution" validate:"required,max=200"`
	Degree       string `json:"degree" validate:"required,max=200"`
	FieldOfStudy string `json:"fieldOfStudy" validate:"max=200"`
	StartDate    string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate      string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	IsCurrent    bool   `json:"isCurrent"`
	Description  string `json:"description"`
	Location     string `json:"location" validate:"max=200"`
	IsPublished  bool   `json:"isPublished"`
}

func (in EducationInput) build(e *domain.Education) error {
	trim(&in.Institution, &in.Degree, &in.FieldOfStudy, &in.Location, &in.StartDate, &in.EndDate)
	if err := check(in); err != nil {
		return err
	}
	start, err := parseDate(in.StartDate)
	if err != nil {
		return err
	}
	end, err := parseDate(in.EndDate)
	if err != nil {
		return err
	}
	// 在读的条目没有结束日期
	if in.IsCurrent {
		end = nil
	}
	if end != nil && end.Before(*start) {
		return domain.Invalid("endDate must not be before startDate")
	}
	e.Institution, e.Degree, e.FieldOfStudy, e.Location = in.Institution, in.Degree, in.FieldOfStudy, in.Location
	e.StartDate, e.EndDate, e.IsCurrent = *start, end, in.IsCurrent
	e.Description = in.Description
	e.IsPublished = in.IsPublished
	return nil
}

type AboutInput struct {
	Content     string `json:"content" validate:"required"`
	ResumeURL   string `json:"resumeUrl" validate:"omitempty,http_url,max=500"`
	LinkedInURL string `json:"linkedinUrl" validate:"omitempty,http_url,max=500"`
	GitHubURL   string `json:"githubUrl" validate:"omitempty,http_url,max=500"`
	WebsiteURL  string `json:"websiteUrl" validate:"omitempty,http_url,max=500"`
}

func (in AboutInput) build(a *domain.AboutMe) error {
	trim(&in.Content, &in.ResumeURL, &in.LinkedInURL, &in.GitHubURL, &in.WebsiteURL)
	if err := check(in); err != nil {
		return err
	}
	a.Content = in.Content
	a.ResumeURL, a.LinkedInURL, a.GitHubURL, a.WebsiteURL = in.ResumeURL, in.LinkedInURL, in.GitHubURL, in.WebsiteURL
	return nil
}

func (e *Editor) checkCategory(ctx context.Context, store *repo.Store, id *uint) error {
	if id == nil {
		return nil
	}
	if _, err := store.Categories.Get(ctx, *id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Invalid("category %d does not exist", *id)
		}
		return err
	}
	return nil
}

// dropBlob 尽力删除旧文件
func (e *Editor) dropBlob(ctx context.Context, key string) {
	if key == "" || e.images == nil {
		return
	}
	if err := e.images.Delete(ctx, key); err != nil {
		e.log.Warn("delete blob failed", zap.String("key", key), zap.Error(err))
	}
}

// replaceImage 先存新图再落库；落库失败删新图，成功删旧图
func replaceImage[T any](ctx context.Context, e *Editor, folder, filename string, r io.Reader,
	load func() (*T, error), slot func(*T) *string, save func(*T) error) (*T, error) {
	if e.images == nil {
		return nil, errors.New("image storage is not configured")
	}
	m, err := load()
	if err != nil {
		return nil, err
	}
	key, err := e.images.SaveImage(ctx, folder, filename, r)
	if err != nil {
		return nil, err
	}
	field := slot(m)
	old := *field
	*field = key
	if err := save(m); err != nil {
		e.dropBlob(ctx, key)
		return nil, err
	}
	e.dropBlob(ctx, old)
	return m, nil
}

/* ---------- projects ---------- */

func (e *Editor) Projects(ctx context.Context) ([]domain.ProjectView, error) {
	ps, err := e.store.Projects.List(ctx, repo.ProjectFilter{})
	if err != nil {
		return nil, err
	}
	return projectViews(ctx, e.store, ps)
}

func (e *Editor) Project(ctx context.Context, id uint) (*domain.Project, error) {
	return e.store.Projects.Get(ctx, id)
}

func (e *Editor) CreateProject(ctx context.Context, in ProjectInput) (*domain.Project, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}
	if err := e.checkCategory(ctx, e.store, in.CategoryID); err != nil {
		return nil, err
	}
	p := &domain.Project{}
	in.apply(p)
	if err := e.store.Projects.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (e *Editor) UpdateProject(ctx context.Context, id uint, in ProjectInput) (*domain.Project, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}
	if err := e.checkCategory(ctx, e.store, in.CategoryID); err != nil {
		return nil, err
	}
	p, err := e.store.Projects.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(p)
	if err := e.store.Projects.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (e *Editor) SetProjectImage(ctx context.Context, id uint, filename string, r io.Reader) (*domain.Project, error) {
	return replaceImage(ctx, e, "projects", filename, r,
		func() (*domain.Project, error) { return e.store.Projects.Get(ctx, id) },
		func(p *domain.Project) *string { return &p.ImageURL },
		func(p *domain.Project) error { return e.store.Projects.Save(ctx, p) })
}

// DeleteProject 评论、点赞与项目同事务删除；图片在提交后尽力清理
func (e *Editor) DeleteProject(ctx context.Context, id uint) error {
	var image string
	err := e.store.Transaction(ctx, func(tx *repo.Store) error {
		p, err := tx.Projects.Get(ctx, id)
		if err != nil {
			return err
		}
		image = p.ImageURL
		return tx.Projects.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	e.dropBlob(ctx, image)
	return nil
}

/* ---------- achievements ---------- */

func (e *Editor) Achievements(ctx context.Context) ([]domain.Achievement, error) {
	return e.store.Achievements.List(ctx, repo.AchievementFilter{})
}

func (e *Editor) CreateAchievement(ctx context.Context, in AchievementInput) (*domain.Achievement, error) {
	a := &domain.Achievement{}
	if err := in.build(a); err != nil {
		return nil, err
	}
	if err := e.checkCategory(ctx, e.store, a.CategoryID); err != nil {
		return nil, err
	}
	if err := e.store.Achievements.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (e *Editor) UpdateAchievement(ctx context.Context, id uint, in AchievementInput) (*domain.Achievement, error) {
	a, err := e.store.Achievements.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.build(a); err != nil {
		return nil, err
	}
	if err := e.checkCategory(ctx, e.store, a.CategoryID); err != nil {
		return nil, err
	}
	if err := e.store.Achievements.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (e *Editor) SetAchievementImage(ctx context.Context, id uint, filename string, r io.Reader) (*domain.Achievement, error) {
	return replaceImage(ctx, e, "achievements", filename, r,
		func() (*domain.Achievement, error) { return e.store.Achievements.Get(ctx, id) },
		func(a *domain.Achievement) *string { return &a.ImageURL },
		func(a *domain.Achievement) error { return e.store.Achievements.Save(ctx, a) })
}

func (e *Editor) DeleteAchievement(ctx context.Context, id uint) error {
	a, err := e.store.Achievements.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := e.store.Achievements.Delete(ctx, id); err != nil {
		return err
	}
	e.dropBlob(ctx, a.ImageURL)
	return nil
}

/* ---------- education ---------- */

func (e *Editor) Education(ctx context.Context) ([]domain.Education, error) {
	return e.store.Education.List(ctx, false)
}

func (e *Editor) CreateEducation(ctx context.Context, in EducationInput) (*domain.Education, error) {
	ed := &domain.Education{}
	if err := in.build(ed); err != nil {
		return nil, err
	}
	if err := e.store.Education.Create(ctx, ed); err != nil {
		return nil, err
	}
	return ed, nil
}

func (e *Editor) UpdateEducation(ctx context.Context, id uint, in EducationInput) (*domain.Education, error) {
	ed, err := e.store.Education.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.build(ed); err != nil {
		return nil, err
	}
	if err := e.store.Education.Save(ctx, ed); err != nil {
		return nil, err
	}
	return ed, nil
}

func (e *Editor) DeleteEducation(ctx context.Context, id uint) error {
	return e.store.Education.Delete(ctx, id)
}

/* ---------- about me ---------- */

func loadAbout(ctx context.Context, store *repo.Store) (*domain.AboutMe, error) {
	a, err := store.About.Get(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.AboutMe{Content: domain.DefaultAboutContent}, nil
	}
	return a, err
}

// UpsertAbout 读取与写入同事务，保证单例
func (e *Editor) UpsertAbout(ctx context.Context, in AboutInput) (*domain.AboutMe, error) {
	var out *domain.AboutMe
	err := e.store.Transaction(ctx, func(tx *repo.Store) error {
		a, err := loadAbout(ctx, tx)
		if err != nil {
			return err
		}
		if err := in.build(a); err != nil {
			return err
		}
		if err := tx.About.Save(ctx, a); err != nil {
			return err
		}
		out = a
		return nil
	})
	return out, err
}

func (e *Editor) SetAboutImage(ctx context.Context, filename string, r io.Reader) (*domain.AboutMe, error) {
	return replaceImage(ctx, e, "profile", filename, r,
		func() (*domain.AboutMe, error) { return loadAbout(ctx, e.store) },
		func(a *domain.AboutMe) *string { return &a.ProfileImage },
		func(a *domain.AboutMe) error { return e.store.About.Save(ctx, a) })
}
