package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/annashamitova/foodgram-st/internal/mediastore"
	"github.com/annashamitova/foodgram-st/internal/models"
	"github.com/annashamitova/foodgram-st/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// RecipeHandler handles recipe CRUD, filtering and short links
type RecipeHandler struct {
	recipeRepository       repositories.RecipeRepository
	ingredientRepository   repositories.IngredientRepository
	relationRepository     repositories.RelationRepository
	subscriptionRepository repositories.SubscriptionRepository
	media                  *mediastore.Store
	baseURL                string
}

// NewRecipeHandler creates a new RecipeHandler
func NewRecipeHandler(
	recipeRepo repositories.RecipeRepository,
	ingredientRepo repositories.IngredientRepository,
	relationRepo repositories.RelationRepository,
	subRepo repositories.SubscriptionRepository,
	media *mediastore.Store,
	baseURL string,
) *RecipeHandler {
	return &RecipeHandler{
		recipeRepository:       recipeRepo,
		ingredientRepository:   ingredientRepo,
		relationRepository:     relationRepo,
		subscriptionRepository: subRepo,
		media:                  media,
		baseURL:                baseURL,
	}
}

// RegisterRecipeRoutes registers the public recipe routes
func (h *RecipeHandler) RegisterRecipeRoutes(g *echo.Group) {
	g.GET("/recipes", h.ListRecipes)
	g.GET("/recipes/:id", h.GetRecipe)
	g.GET("/recipes/:id/get-link", h.GetShortLink)
}

// RegisterProtectedRecipeRoutes registers routes that require authentication
func (h *RecipeHandler) RegisterProtectedRecipeRoutes(g *echo.Group) {
	g.POST("/recipes", h.CreateRecipe)
	g.PATCH("/recipes/:id", h.UpdateRecipe)
	g.DELETE("/recipes/:id", h.DeleteRecipe)
}

// ListRecipes returns recipes with optional author / favorited / in-cart
// filters, paginated.
func (h *RecipeHandler) ListRecipes(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	page, limit := pageParams(c)

	filter := repositories.RecipeFilter{}
	if v := c.QueryParam("author"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid author ID")
		}
		filter.AuthorID = uint(id)
	}
	// Flag filters require a user to evaluate against; anonymous callers
	// asking for their favorites get an empty page.
	anonymousFlag := false
	if c.QueryParam("is_favorited") == "1" {
		if currentUserID == 0 {
			anonymousFlag = true
		}
		filter.FavoritedBy = currentUserID
	}
	if c.QueryParam("is_in_shopping_cart") == "1" {
		if currentUserID == 0 {
			anonymousFlag = true
		}
		filter.InCartOf = currentUserID
	}
	if anonymousFlag {
		return c.JSON(http.StatusOK, paginatedResponse(c, 0, page, limit, []models.RecipeResponse{}))
	}

	recipes, err := h.recipeRepository.ListRecipes(filter, limit, (page-1)*limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	count, err := h.recipeRepository.CountRecipes(filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	results := make([]models.RecipeResponse, 0, len(recipes))
	for i := range recipes {
		results = append(results, h.recipeResponse(&recipes[i], currentUserID))
	}

	return c.JSON(http.StatusOK, paginatedResponse(c, count, page, limit, results))
}

// GetRecipe returns a single recipe with its full representation.
func (h *RecipeHandler) GetRecipe(c echo.Context) error {
	recipe, err := h.recipeByParam(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.recipeResponse(recipe, getUserIDFromContext(c)))
}

// CreateRecipe stores a new recipe with its ingredient set.
func (h *RecipeHandler) CreateRecipe(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateRecipeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := h.validateIngredients(req.Ingredients); err != nil {
		return err
	}

	imageURL, err := h.media.SaveDataURI(req.Image, "recipes/images")
	if err != nil {
		if err == mediastore.ErrInvalidImage {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid image format")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	recipe := &models.Recipe{
		AuthorID:    currentUserID,
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Image:       imageURL,
	}

	if err := h.recipeRepository.CreateRecipe(recipe, req.Ingredients); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	created, err := h.recipeRepository.GetRecipeByID(recipe.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, h.recipeResponse(created, currentUserID))
}

// UpdateRecipe replaces the recipe fields and its full ingredient set.
// Author only.
func (h *RecipeHandler) UpdateRecipe(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	recipe, err := h.recipeByParam(c)
	if err != nil {
		return err
	}
	if recipe.AuthorID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the author can edit this recipe")
	}

	var req models.UpdateRecipeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := h.validateIngredients(req.Ingredients); err != nil {
		return err
	}

	if req.Name != "" {
		recipe.Name = req.Name
	}
	if req.Text != "" {
		recipe.Text = req.Text
	}
	if req.CookingTime != 0 {
		recipe.CookingTime = req.CookingTime
	}
	oldImage := ""
	if req.Image != "" {
		imageURL, err := h.media.SaveDataURI(req.Image, "recipes/images")
		if err != nil {
			if err == mediastore.ErrInvalidImage {
				return echo.NewHTTPError(http.StatusBadRequest, "Invalid image format")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		oldImage = recipe.Image
		recipe.Image = imageURL
	}

	// Preloaded associations must not be re-saved alongside the row.
	recipe.Ingredients = nil
	recipe.Author = nil

	if err := h.recipeRepository.UpdateRecipe(recipe, req.Ingredients); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	// The stored row must never point at a deleted file, so the old image
	// goes away only once the update is committed.
	if oldImage != "" {
		_ = h.media.Remove(oldImage)
	}

	updated, err := h.recipeRepository.GetRecipeByID(recipe.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, h.recipeResponse(updated, currentUserID))
}

// DeleteRecipe removes a recipe. Author only.
func (h *RecipeHandler) DeleteRecipe(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	recipe, err := h.recipeByParam(c)
	if err != nil {
		return err
	}
	if recipe.AuthorID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the author can delete this recipe")
	}

	if err := h.recipeRepository.DeleteRecipe(recipe.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	_ = h.media.Remove(recipe.Image)

	return c.NoContent(http.StatusNoContent)
}

// GetShortLink returns the short URL for a recipe.
func (h *RecipeHandler) GetShortLink(c echo.Context) error {
	recipe, err := h.recipeByParam(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"short-link": fmt.Sprintf("%s/s/%d", h.baseURL, recipe.ID),
	})
}

// ResolveShortLink redirects /s/:id to the recipe page.
func (h *RecipeHandler) ResolveShortLink(c echo.Context) error {
	recipe, err := h.recipeByParam(c)
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, fmt.Sprintf("/recipes/%d/", recipe.ID))
}

func (h *RecipeHandler) recipeByParam(c echo.Context) (*models.Recipe, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid recipe ID")
	}
	recipe, err := h.recipeRepository.GetRecipeByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Recipe not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return recipe, nil
}

// validateIngredients enforces the write-path constraints: at least one
// ingredient, no duplicate ids, every id known.
func (h *RecipeHandler) validateIngredients(ingredients []models.IngredientAmountRequest) error {
	if len(ingredients) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "ingredients: a recipe needs at least one ingredient")
	}

	ids := make([]uint, 0, len(ingredients))
	seen := make(map[uint]bool, len(ingredients))
	for _, item := range ingredients {
		if seen[item.ID] {
			return echo.NewHTTPError(http.StatusBadRequest, "ingredients: duplicate ingredient ids are not allowed")
		}
		seen[item.ID] = true
		ids = append(ids, item.ID)
	}

	found, err := h.ingredientRepository.GetIngredientsByIDs(ids)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if len(found) != len(ids) {
		return echo.NewHTTPError(http.StatusBadRequest, "ingredients: unknown ingredient id")
	}
	return nil
}

// recipeResponse assembles the read representation: embedded author
// profile plus the per-user favorite and cart flags.
func (h *RecipeHandler) recipeResponse(recipe *models.Recipe, currentUserID uint) models.RecipeResponse {
	author := models.UserResponse{}
	if recipe.Author != nil {
		isSubscribed := false
		if currentUserID != 0 && currentUserID != recipe.Author.ID {
			isSubscribed, _ = h.subscriptionRepository.IsSubscribed(currentUserID, recipe.Author.ID)
		}
		author = newUserResponse(recipe.Author, isSubscribed)
	}

	ingredients := make([]models.IngredientInRecipeResponse, 0, len(recipe.Ingredients))
	for _, row := range recipe.Ingredients {
		item := models.IngredientInRecipeResponse{
			ID:     row.IngredientID,
			Amount: row.Amount,
		}
		if row.Ingredient != nil {
			item.Name = row.Ingredient.Name
			item.MeasurementUnit = row.Ingredient.MeasurementUnit
		}
		ingredients = append(ingredients, item)
	}

	isFavorited := false
	isInCart := false
	if currentUserID != 0 {
		isFavorited, _ = h.relationRepository.Exists(models.RelationFavorite, currentUserID, recipe.ID)
		isInCart, _ = h.relationRepository.Exists(models.RelationShoppingCart, currentUserID, recipe.ID)
	}

	return models.RecipeResponse{
		ID:               recipe.ID,
		Author:           author,
		Ingredients:      ingredients,
		IsFavorited:      isFavorited,
		IsInShoppingCart: isInCart,
		Name:             recipe.Name,
		Image:            recipe.Image,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}
}
