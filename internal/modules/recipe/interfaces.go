package recipe

import (
	"context"

	"cookbook/internal/domain"
	"cookbook/internal/repository"
)

type RecipeStore interface {
	Create(ctx context.Context, recipe *domain.Recipe, tagIDs []int64, ingredients []repository.IngredientAmount) error
	Update(ctx context.Context, recipe *domain.Recipe, tagIDs []int64, ingredients []repository.IngredientAmount) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Recipe, error)
	List(ctx context.Context, filter repository.RecipeFilter) ([]domain.Recipe, int64, error)
}

// MembershipStore answers "which of these recipes are in the user's set"
// in one batched query. Implemented by the favorite and shopping-cart
// repositories.
type MembershipStore interface {
	SetForRecipes(ctx context.Context, userID int64, recipeIDs []int64) (map[int64]bool, error)
}

type FollowStore interface {
	SetForAuthors(ctx context.Context, userID int64, authorIDs []int64) (map[int64]bool, error)
}

type ImageStore interface {
	Save(payload string) (string, error)
}
