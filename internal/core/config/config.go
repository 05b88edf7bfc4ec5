package config

import (
	"errors"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host              string
	Port              int
	ReadTimeoutSec    int
	WriteTimeoutSec   int
	IdleTimeoutSec    int
	RateLimitRPS      float64
	RateLimitBurst    int
	MaxConcurrent     int64
	MaxBodyBytes      int64
	HandlerTimeoutSec int
}
type AdminHTTP struct {
	Host       string
	Port       int
	APIKeyHash string // bcrypt(X-Admin-Key)
}

type App struct {
	Name     string
	Env      string
	Profiles []string // 当前激活的 profile，/profile 会用到
	HTTP     HTTP
	Admin    AdminHTTP
}

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

type Session struct {
	CookieName string
	Secret     string // 签名 OAuth state
	TTLMin     int
	Secure     bool
	SameSite   string
}

type OAuthClient struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

type OAuth struct {
	Google OAuthClient
	Naver  OAuthClient
	Kakao  OAuthClient
}

type Cache struct {
	PostTTLSec int
}

type Config struct {
	App     App
	Log     Log
	JWT     JWT
	DB      DB
	Redis   Redis `mapstructure:"redis"`
	Session Session
	OAuth   OAuth `mapstructure:"oauth"`
	Cache   Cache
}

func Load(path string) *Config {
	c, err := LoadE(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	return c
}

// LoadE 读取 yaml 并允许 APP_ 前缀的环境变量覆盖（APP_DB_DSN -> db.dsn）
func LoadE(path string) (*Config, error) {
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
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

var ErrEmptySessionSecret = errors.New("session.secret is required when an oauth client is configured")

// HasClient 是否配置了任一社交登录
func (o OAuth) HasClient() bool {
	return o.Google.ClientID != "" || o.Naver.ClientID != "" || o.Kakao.ClientID != ""
}

// Validate 启动前的配置自检：开启社交登录时 state 必须用非空密钥签名
func (c *Config) Validate() error {
	if c.OAuth.HasClient() && strings.TrimSpace(c.Session.Secret) == "" {
		return ErrEmptySessionSecret
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "go-gin-blog")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.profiles", []string{})
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readTimeoutSec", 5)
	v.SetDefault("app.http.writeTimeoutSec", 10)
	v.SetDefault("app.http.idleTimeoutSec", 60)
	v.SetDefault("app.http.rateLimitRPS", 200)
	v.SetDefault("app.http.rateLimitBurst", 400)
	v.SetDefault("app.http.maxConcurrent", 300)
	v.SetDefault("app.http.maxBodyBytes", 16<<20)
	v.SetDefault("app.http.handlerTimeoutSec", 10)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 8081)
	v.SetDefault("app.admin.apiKeyHash", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)

	v.SetDefault("jwt.issuer", "go-gin-blog")
	v.SetDefault("jwt.accessTokenTTLMin", 60)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "file:blog.db?cache=shared")
	v.SetDefault("db.maxOpenConns", 20)
	v.SetDefault("db.maxIdleConns", 10)
	v.SetDefault("db.connMaxLifetimeMin", 30)
	v.SetDefault("db.autoMigrate", true)
	v.SetDefault("db.logLevel", "warn")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("session.cookieName", "SESSION")
	v.SetDefault("session.ttlMin", 30)
	v.SetDefault("session.sameSite", "lax")

	v.SetDefault("cache.postTTLSec", 60)
}
