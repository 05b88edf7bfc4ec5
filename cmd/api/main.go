package main

import (
	"context"
	"os"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"go-gin-blog/internal/core/auth"
	"go-gin-blog/internal/core/cache"
	"go-gin-blog/internal/core/config"
	"go-gin-blog/internal/core/database"
	"go-gin-blog/internal/core/logger"
	"go-gin-blog/internal/core/server"
	"go-gin-blog/internal/core/session"
	"go-gin-blog/internal/repo"
	"go-gin-blog/internal/service"
	"go-gin-blog/internal/transport/http/handler"
	"go-gin-blog/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}
	if cfg.Session.Secret == "" {
		log.Warn("session.secret is empty, oauth login stays disabled until it is set")
	}

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// Redis 可选：配置了 addr 才启用 Redis 会话 + 帖子缓存
	sessTTL := session.TTL(cfg.Session)
	var (
		store     session.Store
		postCache *cache.Cache
	)
	if cfg.Redis.Addr != "" {
		rdb := cache.NewClient(cfg.Redis)
		if err := cache.Ping(context.Background(), rdb); err != nil {
			log.Fatal("redis ping", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		defer func() { _ = rdb.Close() }()
		store = session.NewRedisStore(rdb, sessTTL)
		postCache = cache.New(rdb, cfg.App.Name+":")
		log.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	} else {
		store = session.NewMemoryStore(sessTTL)
		log.Warn("redis not configured, using in-memory sessions")
	}

	// JWT
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	// OAuth provider
	providers := auth.NewProviders(cfg.OAuth)
	if len(providers) == 0 {
		log.Warn("no oauth provider configured, login disabled")
	}
	log.Info("oauth providers", zap.Strings("registrations", providers.IDs()))

	// 依赖
	postSvc := service.NewPostService(repo.NewPostRepo(db), postCache,
		time.Duration(cfg.Cache.PostTTLSec)*time.Second, log)
	userSvc := service.NewUserService(repo.NewUserRepo(db), log)
	oauthSvc := service.NewOAuthUserService(providers, userSvc, log)
	cookies := session.NewCookieManager(cfg.Session)

	// 路由（用户端）
	r, err := router.NewAPIEngine(router.APIDeps{
		Logger:  log,
		Mode:    server.GinMode(cfg.App.Env),
		HTTP:    cfg.App.HTTP,
		Store:   store,
		Cookies: cookies,
		JWT:     jwter,
	}, router.NewRegistry(
		handler.Hello{},
		handler.NewProfileHandler(cfg.App.Profiles),
		handler.NewIndex(postSvc, providers),
		handler.NewPosts(postSvc),
		handler.NewOAuth(handler.OAuthDeps{
			Providers:   providers,
			Users:       oauthSvc,
			Store:       store,
			Cookies:     cookies,
			StateSecret: cfg.Session.Secret,
			JWT:         jwter,
			Logger:      log,
		}),
	))
	if err != nil {
		log.Fatal("build engine", zap.Error(err))
	}

	// HTTP Server
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	// 启动日志
	baseURL := server.BaseURL(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	log.Info("blog api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
		zap.Strings("profiles", cfg.App.Profiles),
	)

	server.Run(srv, log, "blog api")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             l,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
