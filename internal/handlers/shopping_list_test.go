package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/annashamitova/foodgram-st/internal/models"
	"github.com/stretchr/testify/require"
)

// The worked example: cart holds Recipe A (flour 200 g, sugar 50 g) and
// Recipe B (flour 100 g, egg 2 pcs). The list must read egg 2, flour 300,
// sugar 50, sorted by name, and name both recipes with their authors.
func TestDownloadShoppingCartAggregates(t *testing.T) {
	env := newTestEnv(t)

	alice := createUser(t, env, "alice@example.com", "alice", "Alice", "Brown")
	bob := createUser(t, env, "bob@example.com", "bob", "Bob", "")
	user := createUser(t, env, "user@example.com", "user", "Carol", "Jones")

	flour := createIngredient(t, env, "flour", "g")
	sugar := createIngredient(t, env, "sugar", "g")
	egg := createIngredient(t, env, "egg", "pcs")

	recipeA := createRecipe(t, env, alice, "Recipe A", map[uint]int{flour.ID: 200, sugar.ID: 50})
	recipeB := createRecipe(t, env, bob, "Recipe B", map[uint]int{flour.ID: 100, egg.ID: 2})

	require.NoError(t, env.DB.Create(&models.ShoppingCart{UserID: user.ID, RecipeID: recipeA.ID}).Error)
	require.NoError(t, env.DB.Create(&models.ShoppingCart{UserID: user.ID, RecipeID: recipeB.ID}).Error)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/recipes/download_shopping_cart", nil)
	asUser(c, user.ID)
	require.NoError(t, env.Relations.DownloadShoppingCart(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Disposition"), "shopping_list.txt")

	body := rec.Body.String()
	lines := strings.Split(body, "\n")

	require.Contains(t, lines[0], "Shopping list")
	require.Equal(t, "1 | Egg | 2 | pcs", lines[2])
	require.Equal(t, "2 | Flour | 300 | g", lines[3])
	require.Equal(t, "3 | Sugar | 50 | g", lines[4])

	require.Contains(t, body, "- Recipe A (author: Alice Brown)")
	// Last name empty: username stands in
	require.Contains(t, body, "- Recipe B (author: Bob bob)")
}

// The grouped sums must equal an independent accumulation over the cart
// recipes' ingredient rows.
func TestShoppingListSumsMatchIndependentAccumulation(t *testing.T) {
	env := newTestEnv(t)

	author := createUser(t, env, "author@example.com", "author", "Anna", "Smith")
	user := createUser(t, env, "user@example.com", "user", "Bob", "Jones")

	flour := createIngredient(t, env, "flour", "g")
	milk := createIngredient(t, env, "milk", "ml")
	butter := createIngredient(t, env, "butter", "g")

	r1 := createRecipe(t, env, author, "Dough", map[uint]int{flour.ID: 500, milk.ID: 250})
	r2 := createRecipe(t, env, author, "Sauce", map[uint]int{milk.ID: 100, butter.ID: 30})
	r3 := createRecipe(t, env, author, "Crust", map[uint]int{flour.ID: 120, butter.ID: 80})
	// Not in the cart, must not contribute
	createRecipe(t, env, author, "Extra", map[uint]int{flour.ID: 999})

	for _, r := range []*models.Recipe{r1, r2, r3} {
		require.NoError(t, env.DB.Create(&models.ShoppingCart{UserID: user.ID, RecipeID: r.ID}).Error)
	}

	// Independent accumulation by (name, unit)
	expected := map[string]int{}
	var rows []models.RecipeIngredient
	require.NoError(t, env.DB.Where("recipe_id IN ?", []uint{r1.ID, r2.ID, r3.ID}).Find(&rows).Error)
	for _, row := range rows {
		var ing models.Ingredient
		require.NoError(t, env.DB.First(&ing, row.IngredientID).Error)
		expected[ing.Name+"|"+ing.MeasurementUnit] += row.Amount
	}

	rec, c := env.doJSONRequest(http.MethodGet, "/api/recipes/download_shopping_cart", nil)
	asUser(c, user.ID)
	require.NoError(t, env.Relations.DownloadShoppingCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	require.Contains(t, body, "Butter | 110 | g")
	require.Contains(t, body, "Flour | 620 | g")
	require.Contains(t, body, "Milk | 350 | ml")
	require.Equal(t, 620, expected["flour|g"])
	require.Equal(t, 350, expected["milk|ml"])
	require.Equal(t, 110, expected["butter|g"])
}

// The "Used in recipes" section lists cart recipes the same way the recipe
// listings order them: longest cooking time first, id as tie-breaker.
func TestShoppingListRecipeOrdering(t *testing.T) {
	env := newTestEnv(t)

	author := createUser(t, env, "author@example.com", "author", "Anna", "Smith")
	user := createUser(t, env, "user@example.com", "user", "Bob", "Jones")
	flour := createIngredient(t, env, "flour", "g")

	quick := createRecipe(t, env, author, "Quick", map[uint]int{flour.ID: 100})
	slow := createRecipe(t, env, author, "Slow", map[uint]int{flour.ID: 100})
	medium := createRecipe(t, env, author, "Medium", map[uint]int{flour.ID: 100})

	require.NoError(t, env.DB.Model(quick).Update("cooking_time", 10).Error)
	require.NoError(t, env.DB.Model(slow).Update("cooking_time", 90).Error)
	require.NoError(t, env.DB.Model(medium).Update("cooking_time", 45).Error)

	for _, r := range []*models.Recipe{quick, slow, medium} {
		require.NoError(t, env.DB.Create(&models.ShoppingCart{UserID: user.ID, RecipeID: r.ID}).Error)
	}

	rec, c := env.doJSONRequest(http.MethodGet, "/api/recipes/download_shopping_cart", nil)
	asUser(c, user.ID)
	require.NoError(t, env.Relations.DownloadShoppingCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	slowAt := strings.Index(body, "- Slow")
	mediumAt := strings.Index(body, "- Medium")
	quickAt := strings.Index(body, "- Quick")
	require.True(t, slowAt >= 0 && mediumAt >= 0 && quickAt >= 0)
	require.Less(t, slowAt, mediumAt)
	require.Less(t, mediumAt, quickAt)
}

func TestDownloadShoppingCartEmpty(t *testing.T) {
	env := newTestEnv(t)
	user := createUser(t, env, "user@example.com", "user", "Bob", "Jones")

	rec, c := env.doJSONRequest(http.MethodGet, "/api/recipes/download_shopping_cart", nil)
	asUser(c, user.ID)
	require.NoError(t, env.Relations.DownloadShoppingCart(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp["error"], "empty")
	// No attachment for an empty cart
	require.Empty(t, rec.Header().Get("Content-Disposition"))
}
