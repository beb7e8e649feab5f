package follow

import (
	"errors"
	"net/http"
	"strconv"

	"cookbook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/users/:id/subscribe", h.Subscribe)
	rg.DELETE("/users/:id/subscribe", h.Unsubscribe)
	rg.GET("/users/subscriptions", h.Subscriptions)
}

func (h *Handler) Subscribe(c *gin.Context) {
	userID := c.GetInt64("user_id")
	authorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user id")
		return
	}
	recipesLimit, _ := strconv.Atoi(c.Query("recipes_limit"))

	author, err := h.service.Subscribe(c.Request.Context(), userID, authorID, recipesLimit)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
		case errors.Is(err, ErrSelfFollow):
			response.Error(c, http.StatusBadRequest, "SELF_FOLLOW", err.Error())
		case errors.Is(err, ErrAlreadyFollowing):
			response.Error(c, http.StatusBadRequest, "ALREADY_EXISTS", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to subscribe")
		}
		return
	}
	response.Success(c, http.StatusCreated, author)
}

func (h *Handler) Unsubscribe(c *gin.Context) {
	userID := c.GetInt64("user_id")
	authorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user id")
		return
	}

	if err := h.service.Unsubscribe(c.Request.Context(), userID, authorID); err != nil {
		if errors.Is(err, ErrNotFollowing) {
			response.Error(c, http.StatusBadRequest, "NOT_FOUND", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to unsubscribe")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Subscriptions(c *gin.Context) {
	userID := c.GetInt64("user_id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	recipesLimit, _ := strconv.Atoi(c.Query("recipes_limit"))

	result, err := h.service.Subscriptions(c.Request.Context(), userID, page, limit, recipesLimit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list subscriptions")
		return
	}
	response.Success(c, http.StatusOK, result)
}
