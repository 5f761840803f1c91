package domain

import "time"

// ProjectView 列表与详情共用的投影
type ProjectView struct {
	*Project
	TechList     []string `json:"techList"`
	LikeCount    int64    `json:"likeCount"`
	CommentCount int64    `json:"commentCount"`
}

type CommentView struct {
	ID         uint      `json:"id"`
	Content    string    `json:"content"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	CreatedAt  time.Time `json:"createdAt"`
}

type ProjectDetail struct {
	ProjectView
	Liked    bool          `json:"liked"`
	Comments []CommentView `json:"comments"`
}

type LikeState struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"likeCount"`
}

type Home struct {
	FeaturedProjects     []ProjectView `json:"featuredProjects"`
	FeaturedAchievements []Achievement `json:"featuredAchievements"`
	About                *AboutMe      `json:"about"`
}

type Stats struct {
	Projects          int64         `json:"projects"`
	PublishedProjects int64         `json:"publishedProjects"`
	Achievements      int64         `json:"achievements"`
	Categories        int64         `json:"categories"`
	Comments          int64         `json:"comments"`
	Likes             int64         `json:"likes"`
	Education         int64         `json:"education"`
	RecentComments    []CommentView `json:"recentComments"`
}
