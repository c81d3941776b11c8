// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"zenith-forums/internal/client"
	"zenith-forums/internal/config"
	"zenith-forums/internal/forum"
	handler "zenith-forums/internal/handler/http"
	"zenith-forums/internal/logger"
	"zenith-forums/internal/moderation"
	"zenith-forums/internal/parser"
	"zenith-forums/internal/router"
)

type App struct {
	Config    *config.Config
	Echo      *echo.Echo
	Logger    *zap.Logger
	Service   forum.ForumService
	Client    *client.FlarumClient
	Parser    *parser.FlarumParser
	Moderator moderation.Moderator
}

func Initialize() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return New(cfg, log)
}

// New wires the application from an already loaded configuration.
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	flarumClient, err := client.NewFlarumClient(cfg.Flarum, log.Named("flarum"))
	if err != nil {
		return nil, fmt.Errorf("failed to create forum client: %w", err)
	}
	if !flarumClient.Configured() {
		log.Warn("Forum API URL or key is not set, pages will render empty states and writes will fail")
	}

	flarumParser := parser.NewFlarumParser()
	forumService := forum.NewForumService(flarumClient, flarumParser, log.Named("forum"))
	moderator := moderation.New(cfg.OpenAI, log.Named("moderation"))

	guidelines, err := moderation.LoadGuidelines(cfg.Moderation.GuidelinesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load community guidelines: %w", err)
	}

	renderer, err := handler.NewTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(requestLogger(log.Named("http")))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		Skipper:      func(c echo.Context) bool { return !isAPIPath(c.Request().URL.Path) },
		AllowMethods: []string{http.MethodGet, http.MethodPost},
	}))
	e.Use(handler.Session(handler.StandInUser(cfg.CurrentUser)))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	router.NewRouter(e, forumService, moderator, router.Options{
		SiteName:   cfg.Site.Name,
		Guidelines: guidelines,
	}, log)

	return &App{
		Config:    cfg,
		Echo:      e,
		Logger:    log,
		Service:   forumService,
		Client:    flarumClient,
		Parser:    flarumParser,
		Moderator: moderator,
	}, nil
}

func (a *App) Start() error {
	a.Logger.Info("Starting server",
		zap.String("address", a.Config.Address()),
		zap.String("site", a.Config.Site.Name),
		zap.String("moderation", a.Moderator.Name()))
	return a.Echo.Start(a.Config.Address())
}

func (a *App) Shutdown(ctx context.Context) error {
	defer func() { _ = a.Logger.Sync() }()
	return a.Echo.Shutdown(ctx)
}

func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				log.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			log.Info("request", fields...)
			return nil
		},
	})
}

func isAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api/")
}
