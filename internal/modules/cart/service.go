package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

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

// AggregationStore sums ingredient amounts across the user's cart
// store-side, one line per distinct ingredient.
type AggregationStore interface {
	ShoppingList(ctx context.Context, userID int64) ([]repository.ShoppingListItem, error)
}

type Service struct {
	carts      RelationStore
	recipes    RecipeGetter
	aggregates AggregationStore
}

func NewService(carts RelationStore, recipes RecipeGetter, aggregates AggregationStore) *Service {
	return &Service{carts: carts, recipes: recipes, aggregates: aggregates}
}

// Add puts the recipe into the user's shopping cart. Repeating the call
// fails with ErrAlreadyInCart.
func (s *Service) Add(ctx context.Context, userID, recipeID int64) (*RecipeBrief, error) {
	r, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	exists, err := s.carts.Exists(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyInCart
	}

	if err := s.carts.Add(ctx, userID, recipeID); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrAlreadyInCart
		}
		return nil, err
	}

	return toRecipeBrief(r), nil
}

func (s *Service) Remove(ctx context.Context, userID, recipeID int64) error {
	if err := s.carts.Remove(ctx, userID, recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotInCart
		}
		return err
	}
	return nil
}

// ShoppingList renders the aggregated cart as numbered plain-text lines.
// Two cart recipes sharing an ingredient produce one combined line with
// the summed amount. An empty cart yields a header and no lines.
func (s *Service) ShoppingList(ctx context.Context, userID int64) (string, error) {
	items, err := s.aggregates.ShoppingList(ctx, userID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Shopping list for %s:\n", time.Now().Format("2006-01-02"))
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s - %d %s.\n", i+1, item.Name, item.TotalAmount, item.MeasurementUnit)
	}
	return b.String(), nil
}
