// internal/router/router.go
package router

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"zenith-forums/internal/forum"
	"zenith-forums/internal/handler/http"
	"zenith-forums/internal/moderation"
)

type Options struct {
	SiteName   string
	Guidelines []string
}

func NewRouter(e *echo.Echo, svc forum.ForumService, moderator moderation.Moderator, opts Options, logger *zap.Logger) {
	pages := http.NewPageHandler(svc, moderator, opts.Guidelines, opts.SiteName, logger)
	cat := http.NewCategoryHandler(svc)
	dis := http.NewDiscussionHandler(svc, logger)
	usr := http.NewUserHandler(svc)
	sch := http.NewSearchHandler(svc)
	mod := http.NewModerationHandler(moderator, logger)
	hlt := http.NewHealthHandler(svc, moderator)

	e.StaticFS("/static", echo.MustSubFS(http.StaticFS, "static"))
	e.GET("/health", hlt.Health)

	e.GET("/", pages.Home)
	e.GET("/t/:slug", pages.Category)
	e.GET("/d/:id", pages.Discussion)
	e.POST("/d/:id/reply", pages.Reply)
	e.GET("/search", pages.Search)
	e.GET("/u/:id", pages.User)
	e.GET("/new", pages.NewTopicForm)
	e.POST("/new", pages.CreateTopic)
	e.GET("/moderation", pages.ModerationForm)
	e.POST("/moderation", pages.Moderate)

	api := e.Group("/api")
	api.GET("/categories", cat.ListCategories)
	api.GET("/categories/:slug", cat.GetCategory)
	api.GET("/categories/:slug/discussions", cat.ListDiscussions)
	api.GET("/discussions/:id", dis.GetDiscussion)
	api.POST("/discussions/:id/posts", dis.SubmitReply)
	api.POST("/discussions", dis.StartDiscussion)
	api.GET("/search", sch.Search)
	api.GET("/users/:id", usr.GetUser)
	api.GET("/me", usr.Me)
	api.POST("/moderate", mod.Moderate)
	api.RouteNotFound("/*", func(c echo.Context) error { return echo.ErrNotFound })

	e.RouteNotFound("/*", pages.NotFound)
}
