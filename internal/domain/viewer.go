package domain

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Viewer 当前请求的访问者；零值即匿名访客
type Viewer struct {
	UserID  string
	IsAdmin bool
}

func Anonymous() Viewer { return Viewer{} }

func (v Viewer) Authenticated() bool { return v.UserID != "" }

// CanSee 未发布内容只对管理员可见
func (v Viewer) CanSee(published bool) bool { return published || v.IsAdmin }
