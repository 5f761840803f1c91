package githubsync

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"portfolio-digital/internal/domain"
	"portfolio-digital/internal/repo"
)

const (
	maxDescription  = 500
	maxTitle        = 200
	maxTechnologies = 500
	enrichWorkers   = 4
	msgFetchFailed  = "No repositories found or API error"
)

// RepoAPI GitHub 的最小依赖面，测试里可替换
type RepoAPI interface {
	ListRepos(ctx context.Context, owner string, cred Credential) ([]Repo, error)
	Languages(ctx context.Context, owner, repo string, cred Credential) ([]string, error)
}

type Result struct {
	Success      bool   `json:"success"`
	NewCount     int    `json:"newCount"`
	UpdatedCount int    `json:"updatedCount"`
	Message      string `json:"message"`
}

type Reconciler struct {
	store *repo.Store
	api   RepoAPI
	owner string
	log   *zap.Logger
}

func NewReconciler(store *repo.Store, api RepoAPI, owner string, log *zap.Logger) *Reconciler {
	return &Reconciler{store: store, api: api, owner: owner, log: log}
}

type enriched struct {
	Repo
	technologies string
}

// Run 拉取失败只返回失败结果；写库失败整体回滚并返回 ErrStorage
func (r *Reconciler) Run(ctx context.Context, cred Credential) (Result, error) {
	repos, err := r.api.ListRepos(ctx, r.owner, cred)
	if err != nil {
		r.log.Warn("github fetch failed", zap.String("owner", r.owner), zap.Error(err))
	}
	if err != nil || len(repos) == 0 {
		syncRuns.WithLabelValues("fetch_failed").Inc()
		return Result{Success: false, Message: msgFetchFailed}, nil
	}

	items := r.enrich(ctx, filterPublic(repos), cred)

	var res Result
	err = r.store.Transaction(ctx, func(tx *repo.Store) error {
		urls := make([]string, len(items))
		for i := range items {
			urls[i] = items[i].HTMLURL
		}
		existing, err := tx.Projects.ByGitHubURLs(ctx, urls)
		if err != nil {
			return err
		}
		res = Result{}
		for i := range items {
			it := &items[i]
			if p, ok := existing[it.HTMLURL]; ok {
				applyUpdate(p, it)
				if err := tx.Projects.Save(ctx, p); err != nil {
					return err
				}
				res.UpdatedCount++
				continue
			}
			p := newProject(it)
			if err := tx.Projects.Create(ctx, p); err != nil {
				return err
			}
			existing[it.HTMLURL] = p
			res.NewCount++
		}
		return nil
	})
	if err != nil {
		r.log.Error("github sync rolled back", zap.Error(err))
		syncRuns.WithLabelValues("storage_failed").Inc()
		return Result{Success: false, Message: err.Error()}, fmt.Errorf("github sync commit: %w", err)
	}

	res.Success = true
	res.Message = fmt.Sprintf("Synced %d new projects, updated %d existing", res.NewCount, res.UpdatedCount)
	syncRuns.WithLabelValues("success").Inc()
	syncProjects.WithLabelValues("created").Add(float64(res.NewCount))
	syncProjects.WithLabelValues("updated").Add(float64(res.UpdatedCount))
	r.log.Info("github sync complete", zap.Int("new", res.NewCount), zap.Int("updated", res.UpdatedCount))
	return res, nil
}

func filterPublic(repos []Repo) []Repo {
	out := make([]Repo, 0, len(repos))
	for _, rp := range repos {
		if rp.Fork || rp.Private || rp.HTMLURL == "" {
			continue
		}
		out = append(out, rp)
	}
	return out
}

// enrich 语言查询失败按空集处理，不中断同步
func (r *Reconciler) enrich(ctx context.Context, repos []Repo, cred Credential) []enriched {
	out := make([]enriched, len(repos))
	var g errgroup.Group
	g.SetLimit(enrichWorkers)
	for i := range repos {
		g.Go(func() error {
			langs, err := r.api.Languages(ctx, r.owner, repos[i].Name, cred)
			if err != nil {
				r.log.Warn("github languages failed", zap.String("repo", repos[i].Name), zap.Error(err))
				langs = nil
			}
			out[i] = enriched{Repo: repos[i], technologies: technologies(langs, repos[i].Topics, repos[i].Language)}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func technologies(langs, topics []string, primary *string) string {
	all := make([]string, 0, len(langs)+len(topics))
	all = append(all, langs...)
	all = append(all, topics...)
	if len(all) == 0 {
		if primary == nil {
			return ""
		}
		return *primary
	}
	return domain.Truncate(strings.Join(all, ", "), maxTechnologies)
}

func description(rp *Repo) string {
	if rp.Description != nil && *rp.Description != "" {
		return *rp.Description
	}
	return "Repository: " + rp.Name
}

func homepage(rp *Repo) string {
	if rp.Homepage == nil {
		return ""
	}
	return *rp.Homepage
}

func applyUpdate(p *domain.Project, it *enriched) {
	p.Title = domain.Truncate(it.Name, maxTitle)
	p.Description = domain.Truncate(description(&it.Repo), maxDescription)
	p.Technologies = it.technologies
	p.DemoURL = homepage(&it.Repo)
	p.Category = nil
}

func newProject(it *enriched) *domain.Project {
	desc := description(&it.Repo)
	return &domain.Project{
		Title:        domain.Truncate(it.Name, maxTitle),
		Description:  domain.Truncate(desc, maxDescription),
		Content:      fmt.Sprintf("This project was automatically imported from GitHub.\n\nRepository: %s\n\nDescription: %s", it.HTMLURL, desc),
		GitHubURL:    it.HTMLURL,
		DemoURL:      homepage(&it.Repo),
		Technologies: it.technologies,
		IsPublished:  true,
		IsFeatured:   it.Stars >= 1,
	}
}
