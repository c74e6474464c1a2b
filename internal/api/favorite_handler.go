package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"inkmatch-backend/internal/core"
)

// FavoriteHandler handles API endpoints for a client's saved artists.
type FavoriteHandler struct {
	favoriteService core.FavoriteService
}

// NewFavoriteHandler creates a new FavoriteHandler.
func NewFavoriteHandler(fs core.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: fs}
}

// mapFavoriteErrorToStatus maps errors from core.FavoriteService to HTTP status codes.
func mapFavoriteErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrProfileNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrProfileNotFound.Error()}
	case errors.Is(err, core.ErrNotAnArtistProfile):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrNotAnArtistProfile.Error()}
	default:
		log.Printf("Internal Server Error: %v", err)
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// AddFavorite handles PUT /favorites/:artistUid
func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	artistUID := c.Param("artistUid")
	if artistUID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Artist UID is required"})
		return
	}

	if err := h.favoriteService.AddFavorite(c.Request.Context(), userID.(string), artistUID); err != nil {
		mapFavoriteErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Artist saved to favorites"})
}

// RemoveFavorite handles DELETE /favorites/:artistUid
func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	artistUID := c.Param("artistUid")
	if artistUID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Artist UID is required"})
		return
	}

	if err := h.favoriteService.RemoveFavorite(c.Request.Context(), userID.(string), artistUID); err != nil {
		mapFavoriteErrorToStatus(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListFavorites handles GET /favorites
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	favorites, err := h.favoriteService.ListFavorites(c.Request.Context(), userID.(string))
	if err != nil {
		mapFavoriteErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, favorites)
}
