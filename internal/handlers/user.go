package handlers

import (
	"net/http"
	"strconv"

	"github.com/annashamitova/foodgram-st/internal/mediastore"
	"github.com/annashamitova/foodgram-st/internal/models"
	"github.com/annashamitova/foodgram-st/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// UserHandler handles HTTP requests related to user profiles
type UserHandler struct {
	userRepository         repositories.UserRepository
	subscriptionRepository repositories.SubscriptionRepository
	media                  *mediastore.Store
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, subRepo repositories.SubscriptionRepository, media *mediastore.Store) *UserHandler {
	return &UserHandler{
		userRepository:         userRepo,
		subscriptionRepository: subRepo,
		media:                  media,
	}
}

// RegisterUserRoutes registers the public profile routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users", h.ListUsers)
	g.GET("/users/:id", h.GetUser)
}

// RegisterProfileRoutes registers routes that require authentication
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/users/me", h.GetMe)
	g.PUT("/users/me/avatar", h.SetAvatar)
	g.DELETE("/users/me/avatar", h.DeleteAvatar)
}

// ListUsers returns all users, paginated.
func (h *UserHandler) ListUsers(c echo.Context) error {
	page, limit := pageParams(c)

	users, err := h.userRepository.ListUsers(limit, (page-1)*limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	count, err := h.userRepository.CountUsers()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	currentUserID := getUserIDFromContext(c)
	results := make([]models.UserResponse, 0, len(users))
	for i := range users {
		results = append(results, h.profileOf(&users[i], currentUserID))
	}

	return c.JSON(http.StatusOK, paginatedResponse(c, count, page, limit, results))
}

// GetUser returns one user's profile by ID.
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	user, err := h.userRepository.GetUserByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, h.profileOf(user, getUserIDFromContext(c)))
}

// GetMe returns the authenticated user's own profile.
func (h *UserHandler) GetMe(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	user, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, newUserResponse(user, false))
}

// SetAvatar decodes the base64 payload and stores it as the user's avatar.
func (h *UserHandler) SetAvatar(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.SetAvatarRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	url, err := h.media.SaveDataURI(req.Avatar, "avatars/users")
	if err != nil {
		if err == mediastore.ErrInvalidImage {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid image format")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Replace the previous file, if any.
	if user.Avatar != "" {
		_ = h.media.Remove(user.Avatar)
	}

	if err := h.userRepository.UpdateAvatar(currentUserID, url); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"avatar": url})
}

// DeleteAvatar removes the stored avatar.
func (h *UserHandler) DeleteAvatar(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	user, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if user.Avatar == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "No avatar to delete")
	}

	if err := h.media.Remove(user.Avatar); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.userRepository.UpdateAvatar(currentUserID, ""); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

// profileOf builds a user representation with the is_subscribed flag
// evaluated against the current user (always false for anonymous callers).
func (h *UserHandler) profileOf(user *models.User, currentUserID uint) models.UserResponse {
	isSubscribed := false
	if currentUserID != 0 && currentUserID != user.ID {
		isSubscribed, _ = h.subscriptionRepository.IsSubscribed(currentUserID, user.ID)
	}
	return newUserResponse(user, isSubscribed)
}
