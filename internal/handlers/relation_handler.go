package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/annashamitova/foodgram-st/internal/models"
	"github.com/annashamitova/foodgram-st/internal/repositories"
	"github.com/annashamitova/foodgram-st/internal/shoppinglist"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// RelationHandler handles the favorite and shopping cart toggles, and the
// shopping list download. Both relations share one code path parameterized
// by kind.
type RelationHandler struct {
	relationRepository     repositories.RelationRepository
	recipeRepository       repositories.RecipeRepository
	shoppingListRepository repositories.ShoppingListRepository
}

// NewRelationHandler creates a new RelationHandler
func NewRelationHandler(relationRepo repositories.RelationRepository, recipeRepo repositories.RecipeRepository, listRepo repositories.ShoppingListRepository) *RelationHandler {
	return &RelationHandler{
		relationRepository:     relationRepo,
		recipeRepository:       recipeRepo,
		shoppingListRepository: listRepo,
	}
}

// RegisterRelationRoutes registers favorite/cart routes
func (h *RelationHandler) RegisterRelationRoutes(g *echo.Group) {
	g.POST("/recipes/:id/favorite", h.AddToFavorites)
	g.DELETE("/recipes/:id/favorite", h.RemoveFromFavorites)
	g.POST("/recipes/:id/shopping_cart", h.AddToShoppingCart)
	g.DELETE("/recipes/:id/shopping_cart", h.RemoveFromShoppingCart)
	g.GET("/recipes/download_shopping_cart", h.DownloadShoppingCart)
}

func (h *RelationHandler) AddToFavorites(c echo.Context) error {
	return h.addRelation(c, models.RelationFavorite)
}

func (h *RelationHandler) RemoveFromFavorites(c echo.Context) error {
	return h.removeRelation(c, models.RelationFavorite)
}

func (h *RelationHandler) AddToShoppingCart(c echo.Context) error {
	return h.addRelation(c, models.RelationShoppingCart)
}

func (h *RelationHandler) RemoveFromShoppingCart(c echo.Context) error {
	return h.removeRelation(c, models.RelationShoppingCart)
}

// addRelation creates the (user, recipe) pair for the given kind. A second
// add of the same pair is an error, not a no-op.
func (h *RelationHandler) addRelation(c echo.Context, kind models.RelationKind) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	recipeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid recipe ID")
	}

	// Verify recipe exists
	recipe, err := h.recipeRepository.GetRecipeByID(uint(recipeID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Recipe not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	exists, err := h.relationRepository.Exists(kind, currentUserID, recipe.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if exists {
		return c.JSON(http.StatusBadRequest, errorJSON("Recipe %q is already in %s", recipe.Name, kind))
	}

	if err := h.relationRepository.Create(kind, currentUserID, recipe.ID); err != nil {
		// Two concurrent adds race past the existence check; the unique
		// index decides, and the loser gets the same conflict answer.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusBadRequest, errorJSON("Recipe %q is already in %s", recipe.Name, kind))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, models.NewRecipeShortResponse(recipe))
}

// removeRelation deletes the pair, 404 when it was never there.
func (h *RelationHandler) removeRelation(c echo.Context, kind models.RelationKind) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	recipeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid recipe ID")
	}

	if err := h.relationRepository.Delete(kind, currentUserID, uint(recipeID)); err != nil {
		if errors.Is(err, repositories.ErrRelationNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("Recipe not found in %s", kind))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

// DownloadShoppingCart aggregates every ingredient across the user's cart
// and returns the consolidated list as a text attachment. Pure read: no
// state is created.
func (h *RelationHandler) DownloadShoppingCart(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	size, err := h.shoppingListRepository.CartSize(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if size == 0 {
		return c.JSON(http.StatusBadRequest, errorJSON("Your shopping cart is empty"))
	}

	totals, err := h.shoppingListRepository.IngredientTotals(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	recipes, err := h.shoppingListRepository.CartRecipes(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	content := shoppinglist.Build(time.Now(), totals, recipes)

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", shoppinglist.Filename))
	return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, []byte(content))
}
