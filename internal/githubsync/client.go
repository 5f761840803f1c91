// Package githubsync 从 GitHub 拉取公开仓库并同步为作品集项目
package githubsync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"portfolio-digital/internal/domain"
)

const (
	acceptHeader = "application/vnd.github.v3+json"
	userAgent    = "Portfolio-App"
	maxPageSize  = 100
)

// Repo 仓库列表接口里用到的字段
type Repo struct {
	Name        string   `json:"name"`
	HTMLURL     string   `json:"html_url"`
	Description *string  `json:"description"`
	Homepage    *string  `json:"homepage"`
	Fork        bool     `json:"fork"`
	Private     bool     `json:"private"`
	Stars       int      `json:"stargazers_count"`
	Language    *string  `json:"language"`
	Topics      []string `json:"topics"`
}

type ClientOptions struct {
	BaseURL       string
	ListTimeout   time.Duration
	EnrichTimeout time.Duration
	EnrichRPS     float64
	HTTP          *http.Client
}

type Client struct {
	base          string
	http          *http.Client
	listTimeout   time.Duration
	enrichTimeout time.Duration
	limiter       *rate.Limiter
	log           *zap.Logger
}

func NewClient(o ClientOptions, log *zap.Logger) *Client {
	if o.BaseURL == "" {
		o.BaseURL = "https://api.github.com"
	}
	if o.HTTP == nil {
		o.HTTP = &http.Client{}
	}
	if o.ListTimeout <= 0 {
		o.ListTimeout = 10 * time.Second
	}
	if o.EnrichTimeout <= 0 {
		o.EnrichTimeout = 5 * time.Second
	}
	lim := rate.NewLimiter(rate.Inf, 1)
	if o.EnrichRPS > 0 {
		lim = rate.NewLimiter(rate.Limit(o.EnrichRPS), 1)
	}
	return &Client{
		base:          strings.TrimRight(o.BaseURL, "/"),
		http:          o.HTTP,
		listTimeout:   o.ListTimeout,
		enrichTimeout: o.EnrichTimeout,
		limiter:       lim,
		log:           log,
	}
}

func (c *Client) get(ctx context.Context, path string, q url.Values, cred Credential) (*http.Response, error) {
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", userAgent)
	if cred.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cred.Token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github GET %s: %w: %w", path, domain.ErrExternal, err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		_ = resp.Body.Close()
		return nil, fmt.Errorf("github GET %s: status %d %s: %w", path, resp.StatusCode, strings.TrimSpace(string(body)), domain.ErrExternal)
	}
	return resp, nil
}

// ListRepos 只取第一页（每页最大 100），不翻页
func (c *Client) ListRepos(ctx context.Context, owner string, cred Credential) ([]Repo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.listTimeout)
	defer cancel()

	q := url.Values{}
	q.Set("sort", "updated")
	q.Set("direction", "desc")
	q.Set("per_page", fmt.Sprint(maxPageSize))
	resp, err := c.get(ctx, "/users/"+url.PathEscape(owner)+"/repos", q, cred)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var repos []Repo
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, fmt.Errorf("decode repos: %w: %w", domain.ErrExternal, err)
	}
	c.log.Info("github repos fetched", zap.String("owner", owner), zap.Int("count", len(repos)))
	return repos, nil
}

// Languages 返回语言名，保持接口返回的顺序（按代码量降序）
func (c *Client) Languages(ctx context.Context, owner, repo string, cred Credential) ([]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.enrichTimeout)
	defer cancel()

	resp, err := c.get(ctx, "/repos/"+url.PathEscape(owner)+"/"+url.PathEscape(repo)+"/languages", nil, cred)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return decodeKeys(resp.Body)
}

// decodeKeys 逐 token 读取 JSON 对象的键，map 会丢失顺序
func decodeKeys(r io.Reader) ([]string, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode languages: %w: %w", domain.ErrExternal, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("decode languages: expected object: %w", domain.ErrExternal)
	}
	keys := []string{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode languages: %w: %w", domain.ErrExternal, err)
		}
		key, _ := kt.(string)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, fmt.Errorf("decode languages: %w: %w", domain.ErrExternal, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}
