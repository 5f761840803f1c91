package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}
type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name        string
	Env         string
	SiteURL     string   `mapstructure:"site_url"` // 生成项目公开链接用，如 https://me.dev
	CORSOrigins []string `mapstructure:"cors_origins"`
	MaxInFlight int64    `mapstructure:"max_in_flight"`
	TimeoutSec  int      `mapstructure:"timeout_sec"`
	HTTP        HTTP
	Admin       AdminHTTP
}

func (a App) Timeout() time.Duration { return time.Duration(a.TimeoutSec) * time.Second }

type Rotate struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level  string
	JSON   bool
	Rotate Rotate
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

func (j JWT) AccessTokenTTL() time.Duration { return time.Duration(j.AccessTokenTTLMin) * time.Minute }

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type GitHub struct {
	Owner            string
	APIBaseURL       string `mapstructure:"api_base_url"`
	Token            string
	TokenTTLMin      int     `mapstructure:"token_ttl_min"`
	ListTimeoutSec   int     `mapstructure:"list_timeout_sec"`
	EnrichTimeoutSec int     `mapstructure:"enrich_timeout_sec"`
	EnrichRPS        float64 `mapstructure:"enrich_rps"`
	LockTTLSec       int     `mapstructure:"lock_ttl_sec"`
}

type Upload struct {
	Backend      string // local | minio
	Dir          string
	PublicPrefix string `mapstructure:"public_prefix"`
	MaxBytes     int64  `mapstructure:"max_bytes"`
	MaxSide      int    `mapstructure:"max_side"`
	Quality      int
}

type MinIO struct {
	Endpoint  string
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string
	UseSSL    bool   `mapstructure:"use_ssl"`
	PublicURL string `mapstructure:"public_url"`
}

type Admin struct {
	Email     string
	Password  string
	FirstName string `mapstructure:"first_name"`
	LastName  string `mapstructure:"last_name"`
}

type Config struct {
	App    App
	Log    Log
	JWT    JWT
	DB     DB
	Redis  Redis `mapstructure:"redis"`
	GitHub GitHub
	Upload Upload
	MinIO  MinIO `mapstructure:"minio"`
	Admin  Admin
}

func (g GitHub) ListTimeout() time.Duration   { return time.Duration(g.ListTimeoutSec) * time.Second }
func (g GitHub) EnrichTimeout() time.Duration { return time.Duration(g.EnrichTimeoutSec) * time.Second }
func (g GitHub) LockTTL() time.Duration       { return time.Duration(g.LockTTLSec) * time.Second }
func (g GitHub) TokenTTL() time.Duration      { return time.Duration(g.TokenTTLMin) * time.Minute }

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "portfolio")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.site_url", "http://127.0.0.1:8080")
	v.SetDefault("app.max_in_flight", 256)
	v.SetDefault("app.timeout_sec", 20)
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readtimeoutsec", 15)
	v.SetDefault("app.http.writetimeoutsec", 30)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 8081)

	v.SetDefault("log.level", "info")

	v.SetDefault("jwt.issuer", "portfolio")
	v.SetDefault("jwt.accesstokenttlmin", 60*24)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "portfolio.db")
	v.SetDefault("db.maxopenconns", 20)
	v.SetDefault("db.maxidleconns", 5)
	v.SetDefault("db.connmaxlifetimemin", 30)
	v.SetDefault("db.automigrate", true)
	v.SetDefault("db.loglevel", "warn")

	v.SetDefault("redis.addr", "127.0.0.1:6379")

	v.SetDefault("github.api_base_url", "https://api.github.com")
	v.SetDefault("github.token_ttl_min", 60)
	v.SetDefault("github.list_timeout_sec", 10)
	v.SetDefault("github.enrich_timeout_sec", 5)
	v.SetDefault("github.enrich_rps", 5)
	v.SetDefault("github.lock_ttl_sec", 120)

	v.SetDefault("upload.backend", "local")
	v.SetDefault("upload.dir", "static/uploads")
	v.SetDefault("upload.public_prefix", "/static/uploads")
	v.SetDefault("upload.max_bytes", 16<<20)
	v.SetDefault("upload.max_side", 1200)
	v.SetDefault("upload.quality", 85)

	v.SetDefault("minio.bucket", "portfolio")
}

// Load 读取 YAML，环境变量 APP_ 前缀覆盖（a.b → APP_A_B）
func Load(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// 兼容旧部署的 DATABASE_URL
	if u := os.Getenv("DATABASE_URL"); u != "" && os.Getenv("APP_DB_DSN") == "" {
		c.DB.DSN = u
	}
	if c.GitHub.Owner == "" {
		c.GitHub.Owner = os.Getenv("GITHUB_USERNAME")
	}
	if c.GitHub.Token == "" {
		c.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	}
	return &c, nil
}
