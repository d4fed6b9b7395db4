package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/annashamitova/foodgram-st/internal/mediastore"
	"github.com/annashamitova/foodgram-st/internal/models"
	"github.com/annashamitova/foodgram-st/internal/repositories"
	"github.com/annashamitova/foodgram-st/validators"
	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	T  *testing.T
	E  *echo.Echo
	DB *gorm.DB

	Auth        *AuthHandler
	Users       *UserHandler
	Subs        *SubscriptionHandler
	Recipes     *RecipeHandler
	Relations   *RelationHandler
	Ingredients *IngredientHandler
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.ShoppingCart{},
	)
	if err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	e := echo.New()
	e.Validator = validators.NewValidator()

	media := mediastore.New(t.TempDir(), "/media")
	jwtSecret := []byte("test-secret")

	userRepo := repositories.NewPostgresUserRepository(db)
	subRepo := repositories.NewPostgresSubscriptionRepository(db)
	recipeRepo := repositories.NewPostgresRecipeRepository(db)
	ingredientRepo := repositories.NewPostgresIngredientRepository(db)
	relationRepo := repositories.NewPostgresRelationRepository(db)
	listRepo := repositories.NewPostgresShoppingListRepository(db)

	return &testEnv{
		T:           t,
		E:           e,
		DB:          db,
		Auth:        NewAuthHandler(userRepo, jwtSecret),
		Users:       NewUserHandler(userRepo, subRepo, media),
		Subs:        NewSubscriptionHandler(subRepo, userRepo, recipeRepo),
		Recipes:     NewRecipeHandler(recipeRepo, ingredientRepo, relationRepo, subRepo, media, "http://localhost:8080"),
		Relations:   NewRelationHandler(relationRepo, recipeRepo, listRepo),
		Ingredients: NewIngredientHandler(ingredientRepo),
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

// asUser marks the context as authenticated, the way the JWT middleware
// would after parsing a valid token.
func asUser(c echo.Context, userID uint) {
	c.Set("user", &models.JwtCustomClaims{UserID: userID})
}

func requireHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, code, he.Code)
}

func createUser(t *testing.T, env *testEnv, email, username, firstName, lastName string) *models.User {
	t.Helper()
	user := &models.User{
		Email:     email,
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
	}
	require.NoError(t, env.DB.Create(user).Error)
	return user
}

func createIngredient(t *testing.T, env *testEnv, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := &models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, env.DB.Create(ingredient).Error)
	return ingredient
}

// createRecipe inserts a recipe with its ingredient rows directly.
func createRecipe(t *testing.T, env *testEnv, author *models.User, name string, amounts map[uint]int) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Text:        "test recipe",
		CookingTime: 30,
		Image:       "/media/recipes/images/test.png",
	}
	require.NoError(t, env.DB.Create(recipe).Error)
	for ingredientID, amount := range amounts {
		require.NoError(t, env.DB.Create(&models.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: ingredientID,
			Amount:       amount,
		}).Error)
	}
	return recipe
}

func testImageDataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png-bytes"))
}
