package cart

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
	rg.POST("/recipes/:id/shopping_cart", h.Add)
	rg.DELETE("/recipes/:id/shopping_cart", h.Remove)
	rg.GET("/recipes/download_shopping_cart", h.Download)
}

func (h *Handler) Add(c *gin.Context) {
	userID := c.GetInt64("user_id")
	recipeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid recipe id")
		return
	}

	brief, err := h.service.Add(c.Request.Context(), userID, recipeID)
	if err != nil {
		switch {
		case errors.Is(err, ErrRecipeNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
		case errors.Is(err, ErrAlreadyInCart):
			response.Error(c, http.StatusBadRequest, "ALREADY_EXISTS", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to add to shopping cart")
		}
		return
	}
	response.Success(c, http.StatusCreated, brief)
}

func (h *Handler) Remove(c *gin.Context) {
	userID := c.GetInt64("user_id")
	recipeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid recipe id")
		return
	}

	if err := h.service.Remove(c.Request.Context(), userID, recipeID); err != nil {
		if errors.Is(err, ErrNotInCart) {
			response.Error(c, http.StatusBadRequest, "NOT_FOUND", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to remove from shopping cart")
		return
	}
	c.Status(http.StatusNoContent)
}

// Download returns the aggregated shopping list as a plain-text file.
func (h *Handler) Download(c *gin.Context) {
	userID := c.GetInt64("user_id")

	text, err := h.service.ShoppingList(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build shopping list")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}
