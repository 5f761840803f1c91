package domain

import "time"

const DefaultCategoryColor = "#007bff"

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Color     string    `gorm:"size:7;not null;default:'#007bff'" json:"color"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Category) TableName() string { return "categories" }

type Project struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:200;not null" json:"title"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	Content      string    `gorm:"type:text" json:"content"`
	ImageURL     string    `gorm:"size:500" json:"imageUrl"`
	DemoURL      string    `gorm:"size:500" json:"demoUrl"`
	GitHubURL    string    `gorm:"column:github_url;size:500;index" json:"githubUrl"`
	Technologies string    `gorm:"size:500" json:"technologies"`
	IsPublished  bool      `gorm:"not null;default:false;index" json:"isPublished"`
	IsFeatured   bool      `gorm:"not null;default:false" json:"isFeatured"`
	CategoryID   *uint     `gorm:"index" json:"categoryId"`
	Category     *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category,omitempty"`
	Comments     []Comment `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Likes        []Like    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Project) TableName() string { return "projects" }

type Achievement struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Title          string    `gorm:"size:200;not null" json:"title"`
	Description    string    `gorm:"type:text;not null" json:"description"`
	ImageURL       string    `gorm:"size:500" json:"imageUrl"`
	CertificateURL string    `gorm:"size:500" json:"certificateUrl"`
	Organization   string    `gorm:"size:200" json:"organization"`
	DateAchieved   time.Time `gorm:"not null;index" json:"dateAchieved"`
	IsPublished    bool      `gorm:"not null;default:false" json:"isPublished"`
	IsFeatured     bool      `gorm:"not null;default:false" json:"isFeatured"`
	CategoryID     *uint     `gorm:"index" json:"categoryId"`
	Category       *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (Achievement) TableName() string { return "achievements" }

type Education struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Institution  string     `gorm:"size:200;not null" json:"institution"`
	Degree       string     `gorm:"size:200;not null" json:"degree"`
	FieldOfStudy string     `gorm:"size:200" json:"fieldOfStudy"`
	StartDate    time.Time  `gorm:"not null;index" json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
	IsCurrent    bool       `gorm:"not null;default:false" json:"isCurrent"`
	Description  string     `gorm:"type:text" json:"description"`
	Location     string     `gorm:"size:200" json:"location"`
	IsPublished  bool       `gorm:"not null;default:false" json:"isPublished"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (Education) TableName() string { return "education" }

type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	ProjectID  uint      `gorm:"not null;index" json:"projectId"`
	UserID     string    `gorm:"size:36;not null;index" json:"userId"`
	Author     *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	IsApproved bool      `gorm:"not null;default:true" json:"isApproved"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (Comment) TableName() string { return "comments" }

type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:unique_user_project_like" json:"userId"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ProjectID uint      `gorm:"not null;uniqueIndex:unique_user_project_like;index" json:"projectId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Like) TableName() string { return "likes" }

// AboutID 单例行的主键
const AboutID uint = 1

const DefaultAboutContent = "Welcome to my portfolio! More information coming soon."

// AboutMe 单例：整张表至多一行
type AboutMe struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	ProfileImage string    `gorm:"size:500" json:"profileImage"`
	ResumeURL    string    `gorm:"size:500" json:"resumeUrl"`
	LinkedInURL  string    `gorm:"column:linkedin_url;size:500" json:"linkedinUrl"`
	GitHubURL    string    `gorm:"column:github_url;size:500" json:"githubUrl"`
	WebsiteURL   string    `gorm:"size:500" json:"websiteUrl"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (AboutMe) TableName() string { return "about_me" }

// Models 参与自动迁移的全部实体，顺序满足外键依赖
func Models() []any {
	return []any{
		&User{}, &OAuthCredential{}, &Category{}, &Project{},
		&Achievement{}, &Education{}, &Comment{}, &Like{}, &AboutMe{},
	}
}
