package favorite

import (
	"context"
	"errors"

	"cookbook/internal/domain"
	"cookbook/internal/repository"

	"gorm.io/gorm"
)

type RelationStore interface {
	Add(ctx context.Context, userID, recipeID int64) error
	Remove(ctx context.Context, userID, recipeID int64) error
	Exists(ctx context.Context, userID, recipeID int64) (bool, error)
}

type RecipeGetter interface {
	GetByID(ctx context.Context, id int64) (*domain.Recipe, error)
}

type Service struct {
	favorites RelationStore
	recipes   RecipeGetter
}

func NewService(favorites RelationStore, recipes RecipeGetter) *Service {
	return &Service{favorites: favorites, recipes: recipes}
}

// Add favorites the recipe for the user. Repeating the call fails with
// ErrAlreadyFavorited; callers branch on the error for user messaging.
func (s *Service) Add(ctx context.Context, userID, recipeID int64) (*RecipeBrief, error) {
	r, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	exists, err := s.favorites.Exists(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyFavorited
	}

	if err := s.favorites.Add(ctx, userID, recipeID); err != nil {
		// lost a concurrent race on the unique (user, recipe) pair
		if repository.IsUniqueViolation(err) {
			return nil, ErrAlreadyFavorited
		}
		return nil, err
	}

	return toRecipeBrief(r), nil
}

func (s *Service) Remove(ctx context.Context, userID, recipeID int64) error {
	if err := s.favorites.Remove(ctx, userID, recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFavorited
		}
		return err
	}
	return nil
}
