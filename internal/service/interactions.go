package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"portfolio-digital/internal/domain"
	"portfolio-digital/internal/repo"
)

const (
	maxCommentLen     = 1000
	maxNoteLen        = 500
	shareDescLen      = 200
	maxShareTags      = 3
	linkedInShareBase = "https://www.linkedin.com/feed/?"
)

type Interactions struct {
	store   *repo.Store
	log     *zap.Logger
	siteURL string
}

func NewInteractions(store *repo.Store, log *zap.Logger, siteURL string) *Interactions {
	return &Interactions{store: store, log: log, siteURL: strings.TrimRight(siteURL, "/")}
}

func requireUser(v domain.Viewer) error {
	if !v.Authenticated() {
		return fmt.Errorf("login required: %w", domain.ErrUnauthorized)
	}
	return nil
}

func (s *Interactions) AddComment(ctx context.Context, viewer domain.Viewer, projectID uint, text string) (*domain.CommentView, error) {
	if err := requireUser(viewer); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if n := domain.RuneLen(text); n < 1 || n > maxCommentLen {
		return nil, domain.Invalid("comment must be between 1 and %d characters", maxCommentLen)
	}
	if _, err := visibleProject(ctx, s.store, viewer, projectID); err != nil {
		return nil, err
	}
	author, err := s.store.Users.FindByID(ctx, viewer.UserID)
	if err != nil {
		return nil, err
	}
	c := &domain.Comment{Content: text, ProjectID: projectID, UserID: viewer.UserID, IsApproved: true}
	if err := s.store.Comments.Create(ctx, c); err != nil {
		return nil, err
	}
	c.Author = author
	v := commentView(c)
	return &v, nil
}

// ToggleLike 读取、切换、计数在同一事务内完成
func (s *Interactions) ToggleLike(ctx context.Context, viewer domain.Viewer, projectID uint) (domain.LikeState, error) {
	if err := requireUser(viewer); err != nil {
		return domain.LikeState{}, err
	}
	var st domain.LikeState
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		if _, err := visibleProject(ctx, tx, viewer, projectID); err != nil {
			return err
		}
		liked, err := tx.Likes.Toggle(ctx, viewer.UserID, projectID)
		if err != nil {
			return err
		}
		n, err := tx.Likes.CountForProject(ctx, projectID)
		if err != nil {
			return err
		}
		st = domain.LikeState{Liked: liked, LikeCount: n}
		return nil
	})
	return st, err
}

type ShareLink struct {
	URL        string `json:"url"`
	Text       string `json:"text"`
	ProjectURL string `json:"projectUrl"`
}

func (s *Interactions) ProjectURL(id uint) string {
	return fmt.Sprintf("%s/projects/%d", s.siteURL, id)
}

// ShareMessage 只构造链接，不写任何数据
func (s *Interactions) ShareMessage(ctx context.Context, viewer domain.Viewer, projectID uint, note string) (*ShareLink, error) {
	if err := requireUser(viewer); err != nil {
		return nil, err
	}
	note = strings.TrimSpace(note)
	if domain.RuneLen(note) > maxNoteLen {
		return nil, domain.Invalid("personal note must be at most %d characters", maxNoteLen)
	}
	p, err := s.store.Projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !p.IsPublished {
		return nil, fmt.Errorf("project %d: %w", projectID, domain.ErrNotAvailable)
	}
	text := ShareText(p, note)
	link := s.ProjectURL(p.ID)
	q := url.Values{}
	q.Set("url", link)
	q.Set("text", text)
	return &ShareLink{URL: linkedInShareBase + q.Encode(), Text: text, ProjectURL: link}, nil
}

func ShareText(p *domain.Project, note string) string {
	var b strings.Builder
	b.WriteString("Check out this amazing project: ")
	b.WriteString(p.Title)
	b.WriteString("\n\n")
	desc := p.Description
	if domain.RuneLen(desc) > shareDescLen {
		desc = domain.Truncate(desc, shareDescLen) + "..."
	}
	b.WriteString(desc)
	if note != "" {
		b.WriteString("\n\nPersonal note: ")
		b.WriteString(note)
	}
	b.WriteString("\n\n#portfolio #webdevelopment")
	for _, tag := range shareTags(p.Technologies) {
		b.WriteString(" #")
		b.WriteString(tag)
	}
	return b.String()
}

func shareTags(technologies string) []string {
	techs := domain.ParseTechnologies(technologies)
	tags := make([]string, 0, maxShareTags)
	for _, t := range techs {
		if len(tags) == maxShareTags {
			break
		}
		tag := strings.ToLower(strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, t))
		tags = append(tags, tag)
	}
	return tags
}
