package domain

import (
	"strings"
	"time"
)

const (
	AuthLocal    = "local"
	AuthExternal = "external"
)

// User 账号表。local 与 external 两种来源共用一张表，
// 业务侧通过 Account() 拿到对应的变体，不直接读可空字段。
type User struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	Email           *string   `gorm:"uniqueIndex;size:191" json:"email,omitempty"`
	PasswordHash    string    `gorm:"size:256" json:"-"`
	FirstName       string    `gorm:"size:100" json:"firstName,omitempty"`
	LastName        string    `gorm:"size:100" json:"lastName,omitempty"`
	ProfileImageURL string    `gorm:"size:500" json:"profileImageUrl,omitempty"`
	IsAdmin         bool      `gorm:"not null;default:false" json:"isAdmin"`
	AuthType        string    `gorm:"size:20;not null;default:'local'" json:"authType"`
	Provider        string    `gorm:"size:50" json:"-"`
	ExternalID      string    `gorm:"size:191;index" json:"-"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// Account 账号变体：LocalAccount 或 ExternalAccount
type Account interface{ isAccount() }

type LocalAccount struct {
	Email        string
	PasswordHash string
}

type ExternalAccount struct {
	Provider   string
	ExternalID string
}

func (LocalAccount) isAccount()    {}
func (ExternalAccount) isAccount() {}

// Identity 两种账号共同解析出的身份
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	IsAdmin     bool   `json:"isAdmin"`
}

func (u *User) EmailAddress() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}

func (u *User) Account() Account {
	if u.AuthType == AuthExternal {
		return ExternalAccount{Provider: u.Provider, ExternalID: u.ExternalID}
	}
	return LocalAccount{Email: u.EmailAddress(), PasswordHash: u.PasswordHash}
}

func (u *User) Identity() Identity {
	return Identity{ID: u.ID, DisplayName: u.DisplayName(), IsAdmin: u.IsAdmin}
}

func (u *User) DisplayName() string {
	first := strings.TrimSpace(u.FirstName)
	last := strings.TrimSpace(u.LastName)
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	}
	if email := u.EmailAddress(); email != "" {
		if at := strings.IndexByte(email, '@'); at > 0 {
			return email[:at]
		}
		return email
	}
	return "Anonymous User"
}

// Role JWT 中使用的角色名
func (u *User) Role() string {
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// OAuthCredential 外部身份提供方的会话记录，仅为兼容外部认证子系统而保留
type OAuthCredential struct {
	ID                uint      `gorm:"primaryKey"`
	UserID            string    `gorm:"size:36;uniqueIndex:uq_user_browser_session_key_provider"`
	User              *User     `gorm:"foreignKey:UserID"`
	Provider          string    `gorm:"size:50;not null;uniqueIndex:uq_user_browser_session_key_provider"`
	BrowserSessionKey string    `gorm:"size:191;not null;uniqueIndex:uq_user_browser_session_key_provider"`
	Token             string    `gorm:"type:text"`
	CreatedAt         time.Time
}

func (OAuthCredential) TableName() string { return "oauth" }
