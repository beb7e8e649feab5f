package domain

import "time"

type Recipe struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	AuthorID    int64     `json:"author_id" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"size:200;not null"`
	Image       string    `json:"image" gorm:"size:500"`
	Text        string    `json:"text" gorm:"type:text"`
	CookingTime int       `json:"cooking_time" gorm:"not null;check:cooking_time >= 1"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`

	Author      *User              `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Tags        []Tag              `json:"tags,omitempty" gorm:"many2many:recipe_tags"`
	Ingredients []RecipeIngredient `json:"ingredients,omitempty" gorm:"foreignKey:RecipeID"`
}

func (Recipe) TableName() string { return "recipes" }

// RecipeIngredient links a recipe to an ingredient with an amount.
// At most one row per (recipe, ingredient); the whole set is replaced
// wholesale on recipe update.
type RecipeIngredient struct {
	ID           int64 `json:"id" gorm:"primaryKey"`
	RecipeID     int64 `json:"recipe_id" gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID int64 `json:"ingredient_id" gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	Amount       int   `json:"amount" gorm:"not null;check:amount >= 1"`

	Ingredient *Ingredient `json:"ingredient,omitempty" gorm:"foreignKey:IngredientID"`
}

func (RecipeIngredient) TableName() string { return "recipe_ingredients" }
