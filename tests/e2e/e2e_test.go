package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cookbook/internal/database"
	"cookbook/internal/domain"
	"cookbook/internal/middleware"
	"cookbook/internal/modules/auth"
	"cookbook/internal/modules/cart"
	"cookbook/internal/modules/catalog"
	"cookbook/internal/modules/favorite"
	"cookbook/internal/modules/follow"
	"cookbook/internal/modules/recipe"
	"cookbook/internal/pkg/imagestore"
	jwtsvc "cookbook/internal/pkg/jwt"
	"cookbook/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// 1x1 transparent PNG
const testImage = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

type E2ETestSuite struct {
	router     *gin.Engine
	db         *gorm.DB
	jwtService *jwtsvc.Service

	tags        []domain.Tag
	ingredients []domain.Ingredient
}

type TestResponse struct {
	Success bool         `json:"success"`
	Data    interface{}  `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")

	models := []interface{}{
		&domain.User{},
		&domain.Tag{},
		&domain.Ingredient{},
		&domain.Recipe{},
		&domain.RecipeIngredient{},
		&domain.Favorite{},
		&domain.ShoppingCart{},
		&domain.Follow{},
	}
	for _, model := range models {
		require.NoError(t, db.AutoMigrate(model), fmt.Sprintf("Failed to migrate %T", model))
	}

	userRepo := repository.NewUserRepository(db)
	tagRepo := repository.NewTagRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	cartRepo := repository.NewShoppingCartRepository(db)
	followRepo := repository.NewFollowRepository(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)

	images, err := imagestore.NewDiskStore(t.TempDir(), "/media")
	require.NoError(t, err)

	authHandler := auth.NewHandler(auth.NewService(userRepo, followRepo, jwtService))
	catalogHandler := catalog.NewHandler(catalog.NewService(tagRepo, ingredientRepo))
	recipeHandler := recipe.NewHandler(recipe.NewService(recipeRepo, favoriteRepo, cartRepo, followRepo, images))
	favoriteHandler := favorite.NewHandler(favorite.NewService(favoriteRepo, recipeRepo))
	cartHandler := cart.NewHandler(cart.NewService(cartRepo, recipeRepo, recipeRepo))
	followHandler := follow.NewHandler(follow.NewService(followRepo, userRepo, recipeRepo))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")

	authHandler.RegisterPublicRoutes(v1)
	catalogHandler.RegisterRoutes(v1)

	open := v1.Group("/")
	open.Use(middleware.OptionalAuth(jwtService))
	{
		recipeHandler.RegisterReadRoutes(open)
		authHandler.RegisterReadRoutes(open)
	}

	protected := v1.Group("/")
	protected.Use(middleware.RequireAuth(jwtService))
	{
		authHandler.RegisterProtectedRoutes(protected)
		recipeHandler.RegisterWriteRoutes(protected)
		favoriteHandler.RegisterRoutes(protected)
		cartHandler.RegisterRoutes(protected)
		followHandler.RegisterRoutes(protected)
	}

	tags := []domain.Tag{
		{Name: "Breakfast", Slug: "breakfast"},
		{Name: "Dinner", Slug: "dinner"},
	}
	require.NoError(t, db.Create(&tags).Error)

	ingredients := []domain.Ingredient{
		{Name: "flour", MeasurementUnit: "g"},
		{Name: "egg", MeasurementUnit: "pc."},
		{Name: "milk", MeasurementUnit: "ml"},
	}
	require.NoError(t, db.Create(&ingredients).Error)

	return &E2ETestSuite{
		router:      r,
		db:          db,
		jwtService:  jwtService,
		tags:        tags,
		ingredients: ingredients,
	}
}

func (s *E2ETestSuite) makeRequest(method, path string, body interface{}, token string) (*httptest.ResponseRecorder, error) {
	var bodyBytes []byte
	var err error

	if body != nil {
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return nil, err
		}
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	return w, nil
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) *TestResponse {
	t.Helper()
	var resp TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp),
		"Failed to parse response. Status: %d, Body: %s", w.Code, w.Body.String())
	return &resp
}

func dataMap(t *testing.T, resp *TestResponse) map[string]interface{} {
	t.Helper()
	m, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "expected object data, got %T", resp.Data)
	return m
}

// registerAndLogin creates a user through the API and returns their token.
func (s *E2ETestSuite) registerAndLogin(t *testing.T, username string) string {
	t.Helper()

	w, err := s.makeRequest("POST", "/api/v1/auth/register", map[string]interface{}{
		"email":      username + "@test.com",
		"username":   username,
		"first_name": "Test",
		"last_name":  "User",
		"password":   "Password123!",
	}, "")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, w.Code, "register failed: %s", w.Body.String())

	w, err = s.makeRequest("POST", "/api/v1/auth/login", map[string]interface{}{
		"email":    username + "@test.com",
		"password": "Password123!",
	}, "")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, w.Code)

	return dataMap(t, parseResponse(t, w))["auth_token"].(string)
}

func (s *E2ETestSuite) createRecipe(t *testing.T, token, name string, tagIDs []int64, ingredients []map[string]interface{}) int64 {
	t.Helper()

	w, err := s.makeRequest("POST", "/api/v1/recipes", map[string]interface{}{
		"name":         name,
		"image":        testImage,
		"text":         "Cook it well.",
		"cooking_time": 30,
		"tags":         tagIDs,
		"ingredients":  ingredients,
	}, token)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, w.Code, "create recipe failed: %s", w.Body.String())

	return int64(dataMap(t, parseResponse(t, w))["id"].(float64))
}

func TestFlow_RegistrationAndAuth(t *testing.T) {
	suite := setupTestSuite(t)

	token := suite.registerAndLogin(t, "alice")

	t.Run("GET /users/me", func(t *testing.T) {
		w, err := suite.makeRequest("GET", "/api/v1/users/me", nil, token)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)

		data := dataMap(t, parseResponse(t, w))
		assert.Equal(t, "alice", data["username"])
		assert.Equal(t, "alice@test.com", data["email"])
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		w, err := suite.makeRequest("POST", "/api/v1/auth/register", map[string]interface{}{
			"email":      "alice@test.com",
			"username":   "alice2",
			"first_name": "A",
			"last_name":  "B",
			"password":   "Password123!",
		}, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("me requires auth", func(t *testing.T) {
		w, err := suite.makeRequest("GET", "/api/v1/users/me", nil, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("POST /users/set_password", func(t *testing.T) {
		w, err := suite.makeRequest("POST", "/api/v1/users/set_password", map[string]interface{}{
			"current_password": "Password123!",
			"new_password":     "NewPassword456!",
		}, token)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, w.Code)

		// old password no longer works
		w, err = suite.makeRequest("POST", "/api/v1/auth/login", map[string]interface{}{
			"email":    "alice@test.com",
			"password": "Password123!",
		}, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestFlow_RecipeLifecycle(t *testing.T) {
	suite := setupTestSuite(t)
	aliceToken := suite.registerAndLogin(t, "alice")
	bobToken := suite.registerAndLogin(t, "bob")

	recipeID := suite.createRecipe(t, aliceToken, "Pancakes",
		[]int64{suite.tags[0].ID},
		[]map[string]interface{}{
			{"id": suite.ingredients[0].ID, "amount": 200},
			{"id": suite.ingredients[1].ID, "amount": 2},
		})

	t.Run("GET /recipes/:id", func(t *testing.T) {
		w, err := suite.makeRequest("GET", fmt.Sprintf("/api/v1/recipes/%d", recipeID), nil, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)

		data := dataMap(t, parseResponse(t, w))
		assert.Equal(t, "Pancakes", data["name"])
		assert.False(t, data["is_favorited"].(bool))
		author := data["author"].(map[string]interface{})
		assert.Equal(t, "alice", author["username"])
	})

	t.Run("tag filter matches any of the given slugs", func(t *testing.T) {
		w, err := suite.makeRequest("GET", "/api/v1/recipes?tags=breakfast&tags=dinner", nil, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)
		data := dataMap(t, parseResponse(t, w))
		assert.Equal(t, float64(1), data["total"])

		w, err = suite.makeRequest("GET", "/api/v1/recipes?tags=dinner", nil, "")
		require.NoError(t, err)
		data = dataMap(t, parseResponse(t, w))
		assert.Equal(t, float64(0), data["total"])
	})

	t.Run("create with duplicate ingredients is rejected", func(t *testing.T) {
		w, err := suite.makeRequest("POST", "/api/v1/recipes", map[string]interface{}{
			"name":         "Broken",
			"image":        testImage,
			"text":         "x",
			"cooking_time": 10,
			"tags":         []int64{suite.tags[0].ID},
			"ingredients": []map[string]interface{}{
				{"id": suite.ingredients[0].ID, "amount": 100},
				{"id": suite.ingredients[0].ID, "amount": 250},
			},
		}, aliceToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("create with unknown tag is rejected", func(t *testing.T) {
		w, err := suite.makeRequest("POST", "/api/v1/recipes", map[string]interface{}{
			"name":         "Broken",
			"image":        testImage,
			"text":         "x",
			"cooking_time": 10,
			"tags":         []int64{999},
			"ingredients": []map[string]interface{}{
				{"id": suite.ingredients[0].ID, "amount": 100},
			},
		}, aliceToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("PATCH by non-author is forbidden", func(t *testing.T) {
		w, err := suite.makeRequest("PATCH", fmt.Sprintf("/api/v1/recipes/%d", recipeID), map[string]interface{}{
			"name":         "Hijacked",
			"text":         "x",
			"cooking_time": 10,
			"tags":         []int64{suite.tags[0].ID},
			"ingredients": []map[string]interface{}{
				{"id": suite.ingredients[0].ID, "amount": 100},
			},
		}, bobToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("PATCH by author replaces the ingredient set", func(t *testing.T) {
		w, err := suite.makeRequest("PATCH", fmt.Sprintf("/api/v1/recipes/%d", recipeID), map[string]interface{}{
			"name":         "Crepes",
			"text":         "Thinner.",
			"cooking_time": 15,
			"tags":         []int64{suite.tags[1].ID},
			"ingredients": []map[string]interface{}{
				{"id": suite.ingredients[2].ID, "amount": 300},
			},
		}, aliceToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)

		data := dataMap(t, parseResponse(t, w))
		assert.Equal(t, "Crepes", data["name"])
		list := data["ingredients"].([]interface{})
		require.Len(t, list, 1)
		item := list[0].(map[string]interface{})
		assert.Equal(t, "milk", item["name"])
		assert.Equal(t, float64(300), item["amount"])
	})

	t.Run("DELETE then 404", func(t *testing.T) {
		w, err := suite.makeRequest("DELETE", fmt.Sprintf("/api/v1/recipes/%d", recipeID), nil, aliceToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w, err = suite.makeRequest("GET", fmt.Sprintf("/api/v1/recipes/%d", recipeID), nil, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestFlow_FavoritesAndShoppingCart(t *testing.T) {
	suite := setupTestSuite(t)
	aliceToken := suite.registerAndLogin(t, "alice")

	dough := suite.createRecipe(t, aliceToken, "Dough",
		[]int64{suite.tags[0].ID},
		[]map[string]interface{}{{"id": suite.ingredients[0].ID, "amount": 200}})
	batter := suite.createRecipe(t, aliceToken, "Batter",
		[]int64{suite.tags[0].ID},
		[]map[string]interface{}{
			{"id": suite.ingredients[0].ID, "amount": 300},
			{"id": suite.ingredients[1].ID, "amount": 2},
		})

	t.Run("favorite toggle", func(t *testing.T) {
		w, err := suite.makeRequest("POST", fmt.Sprintf("/api/v1/recipes/%d/favorite", dough), nil, aliceToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, w.Code)

		// second add is an explicit error
		w, err = suite.makeRequest("POST", fmt.Sprintf("/api/v1/recipes/%d/favorite", dough), nil, aliceToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		// flag visible on the read path
		w, err = suite.makeRequest("GET", fmt.Sprintf("/api/v1/recipes/%d", dough), nil, aliceToken)
		require.NoError(t, err)
		data := dataMap(t, parseResponse(t, w))
		assert.True(t, data["is_favorited"].(bool))

		// anonymous viewers always see false
		w, err = suite.makeRequest("GET", fmt.Sprintf("/api/v1/recipes/%d", dough), nil, "")
		require.NoError(t, err)
		data = dataMap(t, parseResponse(t, w))
		assert.False(t, data["is_favorited"].(bool))

		w, err = suite.makeRequest("DELETE", fmt.Sprintf("/api/v1/recipes/%d/favorite", dough), nil, aliceToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, w.Code)

		// removing a missing pair is an explicit error, not a no-op
		w, err = suite.makeRequest("DELETE", fmt.Sprintf("/api/v1/recipes/%d/favorite", dough), nil, aliceToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("shopping cart download sums shared ingredients", func(t *testing.T) {
		for _, id := range []int64{dough, batter} {
			w, err := suite.makeRequest("POST", fmt.Sprintf("/api/v1/recipes/%d/shopping_cart", id), nil, aliceToken)
			require.NoError(t, err)
			assert.Equal(t, http.StatusCreated, w.Code)
		}

		w, err := suite.makeRequest("GET", "/api/v1/recipes/download_shopping_cart", nil, aliceToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
		assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

		body := w.Body.String()
		assert.Contains(t, body, "1. egg - 2 pc.")
		assert.Contains(t, body, "2. flour - 500 g")
	})
}

func TestFlow_Subscriptions(t *testing.T) {
	suite := setupTestSuite(t)
	aliceToken := suite.registerAndLogin(t, "alice")
	suite.registerAndLogin(t, "bob")

	var bob domain.User
	require.NoError(t, suite.db.Where("username = ?", "bob").First(&bob).Error)

	t.Run("subscribe", func(t *testing.T) {
		w, err := suite.makeRequest("POST", fmt.Sprintf("/api/v1/users/%d/subscribe", bob.ID), nil, aliceToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, w.Code)

		data := dataMap(t, parseResponse(t, w))
		assert.Equal(t, "bob", data["username"])
		assert.True(t, data["is_subscribed"].(bool))
	})

	t.Run("self-follow is rejected", func(t *testing.T) {
		var alice domain.User
		require.NoError(t, suite.db.Where("username = ?", "alice").First(&alice).Error)

		w, err := suite.makeRequest("POST", fmt.Sprintf("/api/v1/users/%d/subscribe", alice.ID), nil, aliceToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("double subscribe is rejected", func(t *testing.T) {
		w, err := suite.makeRequest("POST", fmt.Sprintf("/api/v1/users/%d/subscribe", bob.ID), nil, aliceToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("GET /users/subscriptions", func(t *testing.T) {
		w, err := suite.makeRequest("GET", "/api/v1/users/subscriptions", nil, aliceToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)

		data := dataMap(t, parseResponse(t, w))
		authors := data["authors"].([]interface{})
		require.Len(t, authors, 1)
		assert.Equal(t, "bob", authors[0].(map[string]interface{})["username"])
	})

	t.Run("user detail carries is_subscribed", func(t *testing.T) {
		w, err := suite.makeRequest("GET", fmt.Sprintf("/api/v1/users/%d", bob.ID), nil, aliceToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)
		data := dataMap(t, parseResponse(t, w))
		assert.True(t, data["is_subscribed"].(bool))

		// anonymous viewers see false
		w, err = suite.makeRequest("GET", fmt.Sprintf("/api/v1/users/%d", bob.ID), nil, "")
		require.NoError(t, err)
		data = dataMap(t, parseResponse(t, w))
		assert.False(t, data["is_subscribed"].(bool))
	})

	t.Run("unsubscribe", func(t *testing.T) {
		w, err := suite.makeRequest("DELETE", fmt.Sprintf("/api/v1/users/%d/subscribe", bob.ID), nil, aliceToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w, err = suite.makeRequest("DELETE", fmt.Sprintf("/api/v1/users/%d/subscribe", bob.ID), nil, aliceToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
