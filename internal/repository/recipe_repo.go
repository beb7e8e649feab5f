package repository

import (
	"context"

	"cookbook/internal/domain"

	"gorm.io/gorm"
)

// IngredientAmount is one validated (ingredient, amount) entry of a
// recipe write.
type IngredientAmount struct {
	IngredientID int64
	Amount       int
}

// RecipeFilter narrows List. Zero values mean "no filter"; FavoritedBy
// and InCartOf carry the viewer id and are left zero for anonymous
// viewers, so those filters fall through to the base queryset.
type RecipeFilter struct {
	TagSlugs    []string
	AuthorID    int64
	FavoritedBy int64
	InCartOf    int64
	Limit       int
	Offset      int
}

// ShoppingListItem is one aggregated line of a user's shopping list.
type ShoppingListItem struct {
	Name            string `gorm:"column:name"`
	TotalAmount     int64  `gorm:"column:total_amount"`
	MeasurementUnit string `gorm:"column:measurement_unit"`
}

type RecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// Create inserts the recipe, its tag set and its ingredient rows in one
// transaction. The referenced tag and ingredient ids are verified inside
// the transaction; nothing is written if any step fails.
func (r *RecipeRepository) Create(ctx context.Context, recipe *domain.Recipe, tagIDs []int64, ingredients []IngredientAmount) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := loadTags(tx, tagIDs)
		if err != nil {
			return err
		}
		if err := verifyIngredients(tx, ingredients); err != nil {
			return err
		}

		if err := tx.Create(recipe).Error; err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}
		return createIngredientRows(tx, recipe.ID, ingredients)
	})
}

// Update replaces the recipe's fields, its tag set and its full
// ingredient set wholesale (delete-then-reinsert, not a diff), atomically.
func (r *RecipeRepository) Update(ctx context.Context, recipe *domain.Recipe, tagIDs []int64, ingredients []IngredientAmount) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := loadTags(tx, tagIDs)
		if err != nil {
			return err
		}
		if err := verifyIngredients(tx, ingredients); err != nil {
			return err
		}

		updates := map[string]any{
			"name":         recipe.Name,
			"image":        recipe.Image,
			"text":         recipe.Text,
			"cooking_time": recipe.CookingTime,
		}
		if err := tx.Model(&domain.Recipe{ID: recipe.ID}).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Recipe{ID: recipe.ID}).Association("Tags").Replace(tags); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&domain.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return createIngredientRows(tx, recipe.ID, ingredients)
	})
}

// Delete removes the recipe and cascades to its ingredient rows, tag
// links, favorites and shopping-cart entries. The cascade is part of the
// store contract here, not delegated to driver-level FK behavior (the
// SQLite dev driver does not enforce FKs by default).
func (r *RecipeRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&domain.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&domain.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&domain.ShoppingCart{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}

		result := tx.Delete(&domain.Recipe{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *RecipeRepository) GetByID(ctx context.Context, id int64) (*domain.Recipe, error) {
	var recipe domain.Recipe
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&recipe, id).Error
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *RecipeRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Recipe{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// List returns recipes newest first with the total for pagination.
// Filters use membership subqueries so the count stays duplicate-free
// under the many-to-many tag join.
func (r *RecipeRepository) List(ctx context.Context, filter RecipeFilter) ([]domain.Recipe, int64, error) {
	applyFilter := func(q *gorm.DB) *gorm.DB {
		if len(filter.TagSlugs) > 0 {
			q = q.Where(
				"recipes.id IN (SELECT rt.recipe_id FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id WHERE t.slug IN ?)",
				filter.TagSlugs,
			)
		}
		if filter.AuthorID != 0 {
			q = q.Where("recipes.author_id = ?", filter.AuthorID)
		}
		if filter.FavoritedBy != 0 {
			q = q.Where("recipes.id IN (SELECT recipe_id FROM favorites WHERE user_id = ?)", filter.FavoritedBy)
		}
		if filter.InCartOf != 0 {
			q = q.Where("recipes.id IN (SELECT recipe_id FROM shopping_carts WHERE user_id = ?)", filter.InCartOf)
		}
		return q
	}

	var total int64
	if err := applyFilter(r.db.WithContext(ctx).Model(&domain.Recipe{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := applyFilter(r.db.WithContext(ctx)).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Order("recipes.id DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}

	var recipes []domain.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// ByAuthorIDs returns all recipes of the given authors in one query,
// newest first, for the subscriptions listing.
func (r *RecipeRepository) ByAuthorIDs(ctx context.Context, authorIDs []int64) ([]domain.Recipe, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	var recipes []domain.Recipe
	err := r.db.WithContext(ctx).
		Where("author_id IN ?", authorIDs).
		Order("id DESC").
		Find(&recipes).Error
	return recipes, err
}

// CountByAuthorIDs returns per-author recipe counts in one grouped query.
func (r *RecipeRepository) CountByAuthorIDs(ctx context.Context, authorIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID int64 `gorm:"column:author_id"`
		Total    int64 `gorm:"column:total"`
	}
	err := r.db.WithContext(ctx).Model(&domain.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

// ShoppingList aggregates every ingredient of every recipe in the user's
// cart, summed per ingredient store-side. Two cart recipes sharing an
// ingredient yield one combined line.
func (r *RecipeRepository) ShoppingList(ctx context.Context, userID int64) ([]ShoppingListItem, error) {
	var items []ShoppingListItem
	err := r.db.WithContext(ctx).Raw(`
		SELECT i.name AS name,
		       SUM(ri.amount) AS total_amount,
		       i.measurement_unit AS measurement_unit
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		JOIN shopping_carts sc ON sc.recipe_id = ri.recipe_id
		WHERE sc.user_id = ?
		GROUP BY i.id, i.name, i.measurement_unit
		ORDER BY i.name`, userID).
		Scan(&items).Error
	return items, err
}

func loadTags(tx *gorm.DB, tagIDs []int64) ([]domain.Tag, error) {
	var tags []domain.Tag
	if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(tagIDs) {
		return nil, ErrTagMissing
	}
	return tags, nil
}

func verifyIngredients(tx *gorm.DB, ingredients []IngredientAmount) error {
	ids := make([]int64, 0, len(ingredients))
	for _, item := range ingredients {
		ids = append(ids, item.IngredientID)
	}
	var count int64
	if err := tx.Model(&domain.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return ErrIngredientMissing
	}
	return nil
}

func createIngredientRows(tx *gorm.DB, recipeID int64, ingredients []IngredientAmount) error {
	rows := make([]domain.RecipeIngredient, 0, len(ingredients))
	for _, item := range ingredients {
		rows = append(rows, domain.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: item.IngredientID,
			Amount:       item.Amount,
		})
	}
	return tx.Create(&rows).Error
}
