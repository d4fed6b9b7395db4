package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/annashamitova/foodgram-st/internal/models"
	"github.com/annashamitova/foodgram-st/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// SubscriptionHandler handles subscribe/unsubscribe HTTP requests
type SubscriptionHandler struct {
	subscriptionRepository repositories.SubscriptionRepository
	userRepository         repositories.UserRepository
	recipeRepository       repositories.RecipeRepository
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(subRepo repositories.SubscriptionRepository, userRepo repositories.UserRepository, recipeRepo repositories.RecipeRepository) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionRepository: subRepo,
		userRepository:         userRepo,
		recipeRepository:       recipeRepo,
	}
}

// RegisterSubscriptionRoutes registers subscription-related routes
func (h *SubscriptionHandler) RegisterSubscriptionRoutes(g *echo.Group) {
	g.GET("/users/subscriptions", h.ListSubscriptions)
	g.POST("/users/:id/subscribe", h.Subscribe)
	g.DELETE("/users/:id/subscribe", h.Unsubscribe)
}

// Subscribe makes the current user follow the given author.
func (h *SubscriptionHandler) Subscribe(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	authorID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	author, err := h.userRepository.GetUserByID(uint(authorID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if currentUserID == author.ID {
		return c.JSON(http.StatusBadRequest, errorJSON("Cannot subscribe to yourself"))
	}

	// Check if already subscribed
	isSubscribed, err := h.subscriptionRepository.IsSubscribed(currentUserID, author.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if isSubscribed {
		return c.JSON(http.StatusBadRequest, errorJSON("Already subscribed to user %q (ID: %d)", author.Username, author.ID))
	}

	sub := &models.Subscription{
		UserID:   currentUserID,
		AuthorID: author.ID,
	}
	if err := h.subscriptionRepository.CreateSubscription(sub); err != nil {
		// A concurrent subscribe may hit the unique index first.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusBadRequest, errorJSON("Already subscribed to user %q (ID: %d)", author.Username, author.ID))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp, err := h.subscriptionResponse(c, author)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, resp)
}

// Unsubscribe removes the follow relation.
func (h *SubscriptionHandler) Unsubscribe(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	authorID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if err := h.subscriptionRepository.DeleteSubscription(currentUserID, uint(authorID)); err != nil {
		if errors.Is(err, repositories.ErrSubscriptionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Subscription not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

// ListSubscriptions returns the authors the current user follows, each with
// their recipes, paginated.
func (h *SubscriptionHandler) ListSubscriptions(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	page, limit := pageParams(c)

	authors, err := h.subscriptionRepository.GetSubscribedAuthors(currentUserID, limit, (page-1)*limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	count, err := h.subscriptionRepository.CountSubscribedAuthors(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	results := make([]models.SubscriptionResponse, 0, len(authors))
	for i := range authors {
		resp, err := h.subscriptionResponse(c, &authors[i])
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		results = append(results, resp)
	}

	return c.JSON(http.StatusOK, paginatedResponse(c, count, page, limit, results))
}

// subscriptionResponse builds the author profile with recipes. The
// recipes_limit query parameter caps the embedded recipe list.
func (h *SubscriptionHandler) subscriptionResponse(c echo.Context, author *models.User) (models.SubscriptionResponse, error) {
	recipesLimit := 0
	if v := c.QueryParam("recipes_limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			recipesLimit = n
		}
	}

	recipes, err := h.recipeRepository.ListRecipesByAuthor(author.ID, recipesLimit)
	if err != nil {
		return models.SubscriptionResponse{}, err
	}
	count, err := h.recipeRepository.CountRecipesByAuthor(author.ID)
	if err != nil {
		return models.SubscriptionResponse{}, err
	}

	short := make([]models.RecipeShortResponse, 0, len(recipes))
	for i := range recipes {
		short = append(short, models.NewRecipeShortResponse(&recipes[i]))
	}

	return models.SubscriptionResponse{
		UserResponse: newUserResponse(author, true),
		Recipes:      short,
		RecipesCount: count,
	}, nil
}
