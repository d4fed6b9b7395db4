package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/annashamitova/foodgram-st/internal/models"
	"github.com/annashamitova/foodgram-st/internal/repositories"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// racingSubscriptionRepository simulates a concurrent subscribe winning
// between the IsSubscribed check and the insert.
type racingSubscriptionRepository struct {
	repositories.SubscriptionRepository
}

func (r *racingSubscriptionRepository) IsSubscribed(userID, authorID uint) (bool, error) {
	return false, nil
}

func (r *racingSubscriptionRepository) CreateSubscription(sub *models.Subscription) error {
	return gorm.ErrDuplicatedKey
}

func TestSubscribeAndListSubscriptions(t *testing.T) {
	env := newTestEnv(t)

	follower := createUser(t, env, "follower@example.com", "follower", "Fred", "Ward")
	author := createUser(t, env, "author@example.com", "author", "Anna", "Smith")
	flour := createIngredient(t, env, "flour", "g")
	createRecipe(t, env, author, "Pancakes", map[uint]int{flour.ID: 200})
	createRecipe(t, env, author, "Waffles", map[uint]int{flour.ID: 150})

	rec, c := env.doJSONRequest(http.MethodPost, "/api/users/2/subscribe", nil)
	c.SetParamNames("id")
	c.SetParamValues("2")
	asUser(c, follower.ID)
	require.NoError(t, env.Subs.Subscribe(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp models.SubscriptionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, author.ID, resp.ID)
	require.True(t, resp.IsSubscribed)
	require.Equal(t, int64(2), resp.RecipesCount)
	require.Len(t, resp.Recipes, 2)

	rec, c = env.doJSONRequest(http.MethodGet, "/api/users/subscriptions?recipes_limit=1", nil)
	asUser(c, follower.ID)
	require.NoError(t, env.Subs.ListSubscriptions(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Count   int64                         `json:"count"`
		Results []models.SubscriptionResponse `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Equal(t, int64(1), page.Count)
	require.Len(t, page.Results, 1)
	require.Equal(t, author.ID, page.Results[0].ID)
	require.Equal(t, int64(2), page.Results[0].RecipesCount)
	require.Len(t, page.Results[0].Recipes, 1)
}

func TestSubscribeToSelf(t *testing.T) {
	env := newTestEnv(t)
	user := createUser(t, env, "user@example.com", "user", "Uma", "Kent")

	rec, c := env.doJSONRequest(http.MethodPost, "/api/users/1/subscribe", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	asUser(c, user.ID)
	require.NoError(t, env.Subs.Subscribe(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp["error"], "yourself")
}

func TestSubscribeTwice(t *testing.T) {
	env := newTestEnv(t)
	follower := createUser(t, env, "follower@example.com", "follower", "Fred", "Ward")
	author := createUser(t, env, "author@example.com", "author", "Anna", "Smith")

	_, c := env.doJSONRequest(http.MethodPost, "/api/users/2/subscribe", nil)
	c.SetParamNames("id")
	c.SetParamValues("2")
	asUser(c, follower.ID)
	require.NoError(t, env.Subs.Subscribe(c))

	rec, c := env.doJSONRequest(http.MethodPost, "/api/users/2/subscribe", nil)
	c.SetParamNames("id")
	c.SetParamValues("2")
	asUser(c, follower.ID)
	require.NoError(t, env.Subs.Subscribe(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp["error"], author.Username)

	var count int64
	env.DB.Model(&models.Subscription{}).Count(&count)
	require.Equal(t, int64(1), count)
}

func TestSubscribeConcurrentDuplicateInsert(t *testing.T) {
	env := newTestEnv(t)
	follower := createUser(t, env, "follower@example.com", "follower", "Fred", "Ward")
	author := createUser(t, env, "author@example.com", "author", "Anna", "Smith")

	userRepo := repositories.NewPostgresUserRepository(env.DB)
	handler := NewSubscriptionHandler(
		&racingSubscriptionRepository{SubscriptionRepository: repositories.NewPostgresSubscriptionRepository(env.DB)},
		userRepo,
		repositories.NewPostgresRecipeRepository(env.DB),
	)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/users/2/subscribe", nil)
	c.SetParamNames("id")
	c.SetParamValues("2")
	asUser(c, follower.ID)
	require.NoError(t, handler.Subscribe(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp["error"], author.Username)
}

func TestSubscribeUnknownAuthor(t *testing.T) {
	env := newTestEnv(t)
	follower := createUser(t, env, "follower@example.com", "follower", "Fred", "Ward")

	_, c := env.doJSONRequest(http.MethodPost, "/api/users/99/subscribe", nil)
	c.SetParamNames("id")
	c.SetParamValues("99")
	asUser(c, follower.ID)
	requireHTTPError(t, env.Subs.Subscribe(c), http.StatusNotFound)
}

func TestUnsubscribe(t *testing.T) {
	env := newTestEnv(t)
	follower := createUser(t, env, "follower@example.com", "follower", "Fred", "Ward")
	createUser(t, env, "author@example.com", "author", "Anna", "Smith")

	_, c := env.doJSONRequest(http.MethodPost, "/api/users/2/subscribe", nil)
	c.SetParamNames("id")
	c.SetParamValues("2")
	asUser(c, follower.ID)
	require.NoError(t, env.Subs.Subscribe(c))

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/users/2/subscribe", nil)
	c.SetParamNames("id")
	c.SetParamValues("2")
	asUser(c, follower.ID)
	require.NoError(t, env.Subs.Unsubscribe(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, c = env.doJSONRequest(http.MethodDelete, "/api/users/2/subscribe", nil)
	c.SetParamNames("id")
	c.SetParamValues("2")
	asUser(c, follower.ID)
	requireHTTPError(t, env.Subs.Unsubscribe(c), http.StatusNotFound)
}
