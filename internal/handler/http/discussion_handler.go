// internal/handler/http/discussion_handler.go
package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"zenith-forums/internal/forum"
	"zenith-forums/internal/models"
	"zenith-forums/internal/parser"
)

type DiscussionHandler struct {
	svc    forum.ForumService
	logger *zap.Logger
}

func NewDiscussionHandler(svc forum.ForumService, logger *zap.Logger) *DiscussionHandler {
	return &DiscussionHandler{svc: svc, logger: logger}
}

// GetDiscussion godoc
// @Summary Get a discussion with its thread
// @Description Retrieves a discussion by id or slug. The opening post is first, replies follow in creation order.
// @Tags discussions
// @Produce json
// @Param id path string true "Discussion id or slug"
// @Success 200 {object} models.DiscussionDetail
// @Failure 404 {object} models.HTTPError
// @Failure 503 {object} models.HTTPError
// @Router /api/discussions/{id} [get]
func (h *DiscussionHandler) GetDiscussion(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), apiTimeout)
	defer cancel()

	detail, err := h.svc.GetDiscussion(ctx, c.Param("id"))
	if err != nil {
		return apiError(err)
	}
	return c.JSON(http.StatusOK, detail)
}

// SubmitReply godoc
// @Summary Reply to a discussion
// @Description Posts a reply as the signed-in user and returns it with the reconciled thread
// @Tags discussions
// @Accept json
// @Produce json
// @Param id path string true "Discussion id"
// @Param body body models.ReplyRequest true "Reply"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} models.HTTPError
// @Failure 401 {object} models.HTTPError
// @Failure 502 {object} models.HTTPError
// @Router /api/discussions/{id}/posts [post]
func (h *DiscussionHandler) SubmitReply(c echo.Context) error {
	var req models.ReplyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), apiTimeout)
	defer cancel()

	id := c.Param("id")
	post, err := h.svc.SubmitReply(ctx, id, req.Content, CurrentUser(c))
	if err != nil {
		return apiError(err)
	}

	resp := map[string]interface{}{"post": post}

	detail, err := h.svc.GetDiscussion(ctx, id)
	if err != nil {
		h.logger.Warn("Reply stored but thread refresh failed", zap.String("discussion", id), zap.Error(err))
	} else {
		resp["posts"] = parser.InsertPost(detail.Posts, *post)
	}

	return c.JSON(http.StatusCreated, resp)
}

// StartDiscussion godoc
// @Summary Start a discussion
// @Description Creates a discussion with its opening post as the signed-in user
// @Tags discussions
// @Accept json
// @Produce json
// @Param body body models.StartDiscussionRequest true "Discussion"
// @Success 201 {object} models.Topic
// @Failure 400 {object} models.HTTPError
// @Failure 401 {object} models.HTTPError
// @Failure 502 {object} models.HTTPError
// @Router /api/discussions [post]
func (h *DiscussionHandler) StartDiscussion(c echo.Context) error {
	var req models.StartDiscussionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), apiTimeout)
	defer cancel()

	topic, err := h.svc.StartDiscussion(ctx, req.Title, req.Content, req.TagIDs, CurrentUser(c))
	if err != nil {
		return apiError(err)
	}
	return c.JSON(http.StatusCreated, topic)
}
