package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	api_middleware "github.com/thesrcielos/gamehub/api/middleware"
	v1 "github.com/thesrcielos/gamehub/api/v1"
	"github.com/thesrcielos/gamehub/internal/apperrors"
	"github.com/thesrcielos/gamehub/internal/chat"
	"github.com/thesrcielos/gamehub/internal/config"
	"github.com/thesrcielos/gamehub/internal/game"
	"github.com/thesrcielos/gamehub/internal/metrics"
	"github.com/thesrcielos/gamehub/internal/ratelimit"
	"github.com/thesrcielos/gamehub/internal/social"
	"github.com/thesrcielos/gamehub/internal/user"
	"github.com/thesrcielos/gamehub/pkg/db"
	"github.com/thesrcielos/gamehub/pkg/filestore"
	"github.com/thesrcielos/gamehub/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("file .env not found, using system values")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("error building logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Connect(cfg, zl)
	if err != nil {
		zl.Fatal("database unavailable", zap.Error(err))
	}
	if err := db.Migrate(conn); err != nil {
		zl.Fatal("migration failed", zap.Error(err))
	}

	var store ratelimit.Store = ratelimit.NewMemoryStore()
	rdb, err := db.ConnectRedis(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("redis unavailable", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
		store = ratelimit.NewRedisStore(rdb)
	} else {
		zl.Info("REDIS_ADDR not set, keeping rate limits in memory")
	}

	files, err := filestore.NewLocalStore(cfg.StorageDir, cfg.PublicURL+"/storage")
	if err != nil {
		zl.Fatal("storage unavailable", zap.Error(err))
	}

	user.ConfigureJWT(cfg.JWTSecret)

	userRepo := user.NewUserRepository(conn)
	userService := user.NewUserService(userRepo, files, cfg.TokenTTL, zl)
	socialService := social.NewSocialService(social.NewSocialRepository(conn), userRepo)
	chatService := chat.NewChatService(chat.NewChatRepository(conn), userRepo, socialService, cfg.RequireFriendship)
	gameService := game.NewGameService(game.NewGameRepository(conn), userRepo, files, zl)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := userService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			zl.Fatal("error seeding admin", zap.Error(err))
		}
	}

	v1.UserService = userService
	v1.SocialService = socialService
	v1.ChatService = chatService
	v1.GameService = gameService
	v1.RegisterLimiter = ratelimit.NewLimiter(store, "register", cfg.RegisterMaxAttempts, cfg.RegisterWindow)
	v1.LoginLimiter = ratelimit.NewLimiter(store, "login", cfg.LoginMaxAttempts, cfg.LoginWindow)
	v1.Logger = zl

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(reg)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = apperrors.Handler(zl)

	e.Use(api_middleware.Metrics())
	e.Use(api_middleware.RequestLogger(zl))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.BodyLimit("4M"))

	e.Static("/storage", cfg.StorageDir)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	api := e.Group("/api")
	v1.RegisterAuthRoutes(api)

	protected := api.Group("", api_middleware.SetupJWTMiddleware(cfg.JWTSecret), api_middleware.SessionMiddleware(userService))
	v1.RegisterSessionRoutes(protected)
	v1.RegisterUserRoutes(protected)
	v1.RegisterSocialRoutes(protected)
	v1.RegisterGameRoutes(protected)
	v1.RegisterStatsRoutes(protected)
	v1.RegisterChatRoutes(protected.Group("/chat"))
	v1.RegisterAdminRoutes(protected.Group("/admin", api_middleware.AdminMiddleware()))

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zl.Error("error during shutdown", zap.Error(err))
	}
}
