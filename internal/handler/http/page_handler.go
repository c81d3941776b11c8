package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"zenith-forums/internal/forum"
	"zenith-forums/internal/models"
	"zenith-forums/internal/moderation"
)

const pageTimeout = 30 * time.Second

type basePage struct {
	SiteName    string
	Title       string
	Query       string
	Flash       string
	Message     string
	CurrentUser *models.User
}

type homePage struct {
	basePage
	Categories []models.Category
}

type categoryPage struct {
	basePage
	Category *models.Category
	Topics   []models.Topic
}

type discussionPage struct {
	basePage
	Detail     *models.DiscussionDetail
	Draft      string
	ReplyError string
}

type searchPage struct {
	basePage
	Topics []models.Topic
}

type userPage struct {
	basePage
	Profile *models.User
	Topics  []models.Topic
}

type newTopicForm struct {
	Title   string
	Content string
	TagIDs  []string
}

type newTopicPage struct {
	basePage
	Categories []models.Category
	Form       newTopicForm
	FormError  string
}

type moderationPage struct {
	basePage
	Input     models.ModerationInput
	Result    *models.ModerationResult
	FormError string
}

// PageHandler serves the server-rendered HTML pages.
type PageHandler struct {
	svc        forum.ForumService
	moderator  moderation.Moderator
	guidelines string
	siteName   string
	logger     *zap.Logger
}

func NewPageHandler(svc forum.ForumService, moderator moderation.Moderator, guidelines []string, siteName string, logger *zap.Logger) *PageHandler {
	return &PageHandler{
		svc:        svc,
		moderator:  moderator,
		guidelines: moderation.FormatGuidelines(guidelines),
		siteName:   siteName,
		logger:     logger,
	}
}

func (h *PageHandler) base(c echo.Context, title string) basePage {
	return basePage{
		SiteName:    h.siteName,
		Title:       title,
		CurrentUser: CurrentUser(c),
	}
}

// renderError renders the not-found or error page for err.
func (h *PageHandler) renderError(c echo.Context, err error) error {
	status := statusFor(err)
	if status == http.StatusNotFound {
		return c.Render(status, "not_found", h.base(c, "Not found"))
	}

	page := h.base(c, "Error")
	page.Message = userMessage(err)

	h.logger.Warn("Page failed",
		zap.String("path", c.Request().URL.Path),
		zap.Int("status", status),
		zap.Error(err))
	return c.Render(status, "error", page)
}

// Home renders the category grid.
func (h *PageHandler) Home(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), pageTimeout)
	defer cancel()

	categories, err := h.svc.ListCategories(ctx)
	if err != nil {
		return h.renderError(c, err)
	}

	return c.Render(http.StatusOK, "home", homePage{
		basePage:   h.base(c, "Categories"),
		Categories: categories,
	})
}

func (h *PageHandler) Category(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), pageTimeout)
	defer cancel()

	category, topics, err := h.svc.GetCategoryPage(ctx, c.Param("slug"))
	if err != nil {
		return h.renderError(c, err)
	}

	return c.Render(http.StatusOK, "category", categoryPage{
		basePage: h.base(c, category.Name),
		Category: category,
		Topics:   topics,
	})
}

func (h *PageHandler) Discussion(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), pageTimeout)
	defer cancel()

	detail, err := h.svc.GetDiscussion(ctx, c.Param("id"))
	if err != nil {
		return h.renderError(c, err)
	}

	return c.Render(http.StatusOK, "discussion", discussionPage{
		basePage: h.base(c, detail.Topic.Title),
		Detail:   detail,
	})
}

// Reply submits a reply and redirects back to the thread. On failure the
// thread is rendered again with the draft kept in the form.
func (h *PageHandler) Reply(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), pageTimeout)
	defer cancel()

	id := c.Param("id")
	content := c.FormValue("content")

	post, err := h.svc.SubmitReply(ctx, id, content, CurrentUser(c))
	if err == nil {
		return c.Redirect(http.StatusSeeOther, "/d/"+id+"#post-"+post.ID)
	}

	// The write may have used up ctx, so the refetch gets its own deadline.
	fetchCtx, fetchCancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), pageTimeout)
	defer fetchCancel()

	detail, fetchErr := h.svc.GetDiscussion(fetchCtx, id)
	if fetchErr != nil {
		h.logger.Warn("Thread refresh after failed reply also failed",
			zap.String("discussion", id), zap.Error(fetchErr))
		detail = &models.DiscussionDetail{Topic: models.Topic{ID: id, Title: "Reply"}}
	}

	return c.Render(statusFor(err), "discussion", discussionPage{
		basePage:   h.base(c, detail.Topic.Title),
		Detail:     detail,
		Draft:      content,
		ReplyError: userMessage(err),
	})
}

func (h *PageHandler) Search(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), pageTimeout)
	defer cancel()

	query := strings.TrimSpace(c.QueryParam("q"))
	topics, err := h.svc.SearchDiscussions(ctx, query)
	if err != nil {
		return h.renderError(c, err)
	}

	page := searchPage{basePage: h.base(c, "Search"), Topics: topics}
	page.Query = query
	return c.Render(http.StatusOK, "search", page)
}

func (h *PageHandler) User(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), pageTimeout)
	defer cancel()

	user, err := h.svc.GetUser(ctx, c.Param("id"))
	if err != nil {
		return h.renderError(c, err)
	}

	topics, err := h.svc.ListUserDiscussions(ctx, user.LoginName())
	if err != nil {
		return h.renderError(c, err)
	}

	return c.Render(http.StatusOK, "user", userPage{
		basePage: h.base(c, user.Username),
		Profile:  user,
		Topics:   topics,
	})
}

func (h *PageHandler) NewTopicForm(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), pageTimeout)
	defer cancel()

	var form newTopicForm
	if tag := c.QueryParam("tag"); tag != "" {
		form.TagIDs = []string{tag}
	}
	return h.renderNewTopic(ctx, c, http.StatusOK, form, "")
}

func (h *PageHandler) CreateTopic(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), pageTimeout)
	defer cancel()

	form := newTopicForm{
		Title:   c.FormValue("title"),
		Content: c.FormValue("content"),
	}
	if params, err := c.FormParams(); err == nil {
		form.TagIDs = params["tag_ids"]
	}

	topic, err := h.svc.StartDiscussion(ctx, form.Title, form.Content, form.TagIDs, CurrentUser(c))
	if err != nil {
		return h.renderNewTopic(ctx, c, statusFor(err), form, userMessage(err))
	}

	return c.Redirect(http.StatusSeeOther, "/d/"+topic.ID)
}

func (h *PageHandler) renderNewTopic(ctx context.Context, c echo.Context, status int, form newTopicForm, formError string) error {
	categories, err := h.svc.ListCategories(ctx)
	if err != nil {
		return h.renderError(c, err)
	}

	return c.Render(status, "new_topic", newTopicPage{
		basePage:   h.base(c, "New topic"),
		Categories: categories,
		Form:       form,
		FormError:  formError,
	})
}

func (h *PageHandler) ModerationForm(c echo.Context) error {
	return c.Render(http.StatusOK, "moderation", moderationPage{
		basePage: h.base(c, "Moderation"),
		Input:    models.ModerationInput{CommunityGuidelines: h.guidelines},
	})
}

func (h *PageHandler) Moderate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), pageTimeout)
	defer cancel()

	input := models.ModerationInput{
		PostContent:         c.FormValue("post_content"),
		CommunityGuidelines: c.FormValue("community_guidelines"),
	}
	page := moderationPage{basePage: h.base(c, "Moderation"), Input: input}

	result, err := h.moderator.Moderate(ctx, input)
	if err != nil {
		status := http.StatusBadRequest
		page.FormError = err.Error()
		if !errors.Is(err, moderation.ErrEmptyContent) && !errors.Is(err, moderation.ErrEmptyGuidelines) {
			h.logger.Error("Moderation failed", zap.Error(err))
			status = http.StatusServiceUnavailable
			page.FormError = "An unknown error occurred during moderation."
		}
		return c.Render(status, "moderation", page)
	}

	page.Result = &result
	return c.Render(http.StatusOK, "moderation", page)
}

// NotFound is used as the fallback for unknown paths.
func (h *PageHandler) NotFound(c echo.Context) error {
	return h.renderError(c, forum.ErrNotFound)
}
