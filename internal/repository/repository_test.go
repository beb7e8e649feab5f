package repository

import (
	"context"
	"fmt"
	"testing"

	"cookbook/internal/database"
	"cookbook/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

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
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	u := &domain.User{
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "x",
		Role:         domain.RoleUser,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedCatalog(t *testing.T, db *gorm.DB) ([]domain.Tag, []domain.Ingredient) {
	t.Helper()
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
	return tags, ingredients
}

func TestRecipeRepository_CreateAndGet(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "alice")
	tags, ingredients := seedCatalog(t, db)
	repo := NewRecipeRepository(db)

	r := &domain.Recipe{
		AuthorID:    author.ID,
		Name:        "Pancakes",
		Image:       "/media/a.png",
		Text:        "Mix and fry.",
		CookingTime: 20,
	}
	err := repo.Create(ctx, r, []int64{tags[0].ID}, []IngredientAmount{
		{IngredientID: ingredients[0].ID, Amount: 200},
		{IngredientID: ingredients[1].ID, Amount: 2},
	})
	require.NoError(t, err)
	require.NotZero(t, r.ID)

	got, err := repo.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", got.Name)
	require.NotNil(t, got.Author)
	assert.Equal(t, "alice", got.Author.Username)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "breakfast", got.Tags[0].Slug)
	require.Len(t, got.Ingredients, 2)
	require.NotNil(t, got.Ingredients[0].Ingredient)
}

func TestRecipeRepository_Create_MissingTagRollsBack(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "alice")
	_, ingredients := seedCatalog(t, db)
	repo := NewRecipeRepository(db)

	r := &domain.Recipe{AuthorID: author.ID, Name: "Ghost", CookingTime: 5}
	err := repo.Create(ctx, r, []int64{999}, []IngredientAmount{
		{IngredientID: ingredients[0].ID, Amount: 100},
	})

	assert.ErrorIs(t, err, ErrTagMissing)

	var count int64
	db.Model(&domain.Recipe{}).Count(&count)
	assert.Zero(t, count, "nothing may be written when a referenced tag is missing")
}

func TestRecipeRepository_Create_MissingIngredient(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "alice")
	tags, _ := seedCatalog(t, db)
	repo := NewRecipeRepository(db)

	r := &domain.Recipe{AuthorID: author.ID, Name: "Ghost", CookingTime: 5}
	err := repo.Create(ctx, r, []int64{tags[0].ID}, []IngredientAmount{
		{IngredientID: 999, Amount: 100},
	})

	assert.ErrorIs(t, err, ErrIngredientMissing)
}

func TestRecipeRepository_Update_ReplacesSetsWholesale(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "alice")
	tags, ingredients := seedCatalog(t, db)
	repo := NewRecipeRepository(db)

	r := &domain.Recipe{AuthorID: author.ID, Name: "Pancakes", CookingTime: 20}
	require.NoError(t, repo.Create(ctx, r, []int64{tags[0].ID}, []IngredientAmount{
		{IngredientID: ingredients[0].ID, Amount: 200},
		{IngredientID: ingredients[1].ID, Amount: 2},
	}))

	r.Name = "Crepes"
	r.CookingTime = 15
	require.NoError(t, repo.Update(ctx, r, []int64{tags[1].ID}, []IngredientAmount{
		{IngredientID: ingredients[2].ID, Amount: 300},
	}))

	got, err := repo.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Crepes", got.Name)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "dinner", got.Tags[0].Slug)
	// the old ingredient rows are gone, only the new set remains
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, ingredients[2].ID, got.Ingredients[0].IngredientID)
	assert.Equal(t, 300, got.Ingredients[0].Amount)
}

func TestRecipeRepository_Delete_Cascades(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "alice")
	fan := seedUser(t, db, "bob")
	tags, ingredients := seedCatalog(t, db)
	repo := NewRecipeRepository(db)

	r := &domain.Recipe{AuthorID: author.ID, Name: "Pancakes", CookingTime: 20}
	require.NoError(t, repo.Create(ctx, r, []int64{tags[0].ID}, []IngredientAmount{
		{IngredientID: ingredients[0].ID, Amount: 200},
	}))
	require.NoError(t, NewFavoriteRepository(db).Add(ctx, fan.ID, r.ID))
	require.NoError(t, NewShoppingCartRepository(db).Add(ctx, fan.ID, r.ID))

	require.NoError(t, repo.Delete(ctx, r.ID))

	var favCount, cartCount, rowCount int64
	db.Model(&domain.Favorite{}).Count(&favCount)
	db.Model(&domain.ShoppingCart{}).Count(&cartCount)
	db.Model(&domain.RecipeIngredient{}).Count(&rowCount)
	assert.Zero(t, favCount)
	assert.Zero(t, cartCount)
	assert.Zero(t, rowCount)
}

func TestRecipeRepository_Delete_NotFound(t *testing.T) {
	db := setupDB(t)
	repo := NewRecipeRepository(db)

	err := repo.Delete(context.Background(), 999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRecipeRepository_List_Filters(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	tags, ingredients := seedCatalog(t, db)
	repo := NewRecipeRepository(db)
	favorites := NewFavoriteRepository(db)

	mk := func(author *domain.User, name string, tagIDs []int64) *domain.Recipe {
		r := &domain.Recipe{AuthorID: author.ID, Name: name, CookingTime: 10}
		require.NoError(t, repo.Create(ctx, r, tagIDs, []IngredientAmount{
			{IngredientID: ingredients[0].ID, Amount: 100},
		}))
		return r
	}

	breakfast := mk(alice, "Pancakes", []int64{tags[0].ID})
	both := mk(alice, "Omelette", []int64{tags[0].ID, tags[1].ID})
	dinner := mk(bob, "Steak", []int64{tags[1].ID})

	// newest first, no filter
	all, total, err := repo.List(ctx, RecipeFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, all, 3)
	assert.Equal(t, dinner.ID, all[0].ID)

	// tag slugs are any-of; a recipe with both tags counts once
	tagged, total, err := repo.List(ctx, RecipeFilter{TagSlugs: []string{"breakfast", "dinner"}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, tagged, 3)

	byTag, total, err := repo.List(ctx, RecipeFilter{TagSlugs: []string{"breakfast"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, byTag, 2)

	byAuthor, total, err := repo.List(ctx, RecipeFilter{AuthorID: bob.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, "Steak", byAuthor[0].Name)

	require.NoError(t, favorites.Add(ctx, bob.ID, breakfast.ID))
	require.NoError(t, favorites.Add(ctx, bob.ID, both.ID))
	faved, total, err := repo.List(ctx, RecipeFilter{FavoritedBy: bob.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, faved, 2)

	// pagination
	page, total, err := repo.List(ctx, RecipeFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 1)
}

// Recipe A holds 200 g flour, recipe B 300 g flour and 2 eggs; the cart
// with both yields flour 500 and egg 2, ordered by ingredient name.
func TestRecipeRepository_ShoppingList_SumsAcrossRecipes(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	tags, ingredients := seedCatalog(t, db)
	repo := NewRecipeRepository(db)
	carts := NewShoppingCartRepository(db)

	flour, egg := ingredients[0], ingredients[1]

	a := &domain.Recipe{AuthorID: alice.ID, Name: "Dough", CookingTime: 10}
	require.NoError(t, repo.Create(ctx, a, []int64{tags[0].ID}, []IngredientAmount{
		{IngredientID: flour.ID, Amount: 200},
	}))
	b := &domain.Recipe{AuthorID: alice.ID, Name: "Batter", CookingTime: 10}
	require.NoError(t, repo.Create(ctx, b, []int64{tags[0].ID}, []IngredientAmount{
		{IngredientID: flour.ID, Amount: 300},
		{IngredientID: egg.ID, Amount: 2},
	}))

	require.NoError(t, carts.Add(ctx, alice.ID, a.ID))
	require.NoError(t, carts.Add(ctx, alice.ID, b.ID))

	items, err := repo.ShoppingList(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, ShoppingListItem{Name: "egg", TotalAmount: 2, MeasurementUnit: "pc."}, items[0])
	assert.Equal(t, ShoppingListItem{Name: "flour", TotalAmount: 500, MeasurementUnit: "g"}, items[1])
}

func TestRecipeRepository_ShoppingList_EmptyCart(t *testing.T) {
	db := setupDB(t)
	alice := seedUser(t, db, "alice")

	items, err := NewRecipeRepository(db).ShoppingList(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFavoriteRepository_PairSemantics(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	tags, ingredients := seedCatalog(t, db)
	recipes := NewRecipeRepository(db)
	repo := NewFavoriteRepository(db)

	r := &domain.Recipe{AuthorID: alice.ID, Name: "Pancakes", CookingTime: 10}
	require.NoError(t, recipes.Create(ctx, r, []int64{tags[0].ID}, []IngredientAmount{
		{IngredientID: ingredients[0].ID, Amount: 100},
	}))

	require.NoError(t, repo.Add(ctx, alice.ID, r.ID))

	// the unique pair index rejects the duplicate insert
	err := repo.Add(ctx, alice.ID, r.ID)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))

	exists, err := repo.Exists(ctx, alice.ID, r.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.Remove(ctx, alice.ID, r.ID))
	assert.ErrorIs(t, repo.Remove(ctx, alice.ID, r.ID), gorm.ErrRecordNotFound)
}

func TestFavoriteRepository_SetForRecipes_AnonymousShortCircuits(t *testing.T) {
	db := setupDB(t)
	repo := NewFavoriteRepository(db)

	set, err := repo.SetForRecipes(context.Background(), 0, []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestFollowRepository_AuthorsOrderedByUsername(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	viewer := seedUser(t, db, "viewer")
	carol := seedUser(t, db, "carol")
	bob := seedUser(t, db, "bob")
	repo := NewFollowRepository(db)

	require.NoError(t, repo.Add(ctx, viewer.ID, carol.ID))
	require.NoError(t, repo.Add(ctx, viewer.ID, bob.ID))

	authors, total, err := repo.Authors(ctx, viewer.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, authors, 2)
	assert.Equal(t, "bob", authors[0].Username)
	assert.Equal(t, "carol", authors[1].Username)
}

func TestFollowRepository_SetForAuthors(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	viewer := seedUser(t, db, "viewer")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")
	repo := NewFollowRepository(db)

	require.NoError(t, repo.Add(ctx, viewer.ID, bob.ID))

	set, err := repo.SetForAuthors(ctx, viewer.ID, []int64{bob.ID, carol.ID})
	require.NoError(t, err)
	assert.True(t, set[bob.ID])
	assert.False(t, set[carol.ID])
}

func TestUserRepository_CreateLowercasesEmail(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	u := &domain.User{Email: " Alice@Example.COM ", Username: "alice", PasswordHash: "x"}
	require.NoError(t, repo.Create(ctx, u))
	assert.Equal(t, "alice@example.com", u.Email)

	got, err := repo.GetByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestIngredientRepository_PrefixSearch(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	seedCatalog(t, db)
	repo := NewIngredientRepository(db)

	hits, err := repo.List(ctx, "fl")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "flour", hits[0].Name)

	// prefix match only, not substring
	none, err := repo.List(ctx, "lour")
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
