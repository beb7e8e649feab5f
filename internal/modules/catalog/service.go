package catalog

import (
	"context"
	"errors"

	"cookbook/internal/domain"

	"gorm.io/gorm"
)

type TagStore interface {
	List(ctx context.Context) ([]domain.Tag, error)
	GetByID(ctx context.Context, id int64) (*domain.Tag, error)
}

type IngredientStore interface {
	List(ctx context.Context, nameQuery string) ([]domain.Ingredient, error)
	GetByID(ctx context.Context, id int64) (*domain.Ingredient, error)
}

type Service struct {
	tags        TagStore
	ingredients IngredientStore
}

func NewService(tags TagStore, ingredients IngredientStore) *Service {
	return &Service{tags: tags, ingredients: ingredients}
}

func (s *Service) Tags(ctx context.Context) ([]TagResponse, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]TagResponse, 0, len(tags))
	for i := range tags {
		views = append(views, toTagResponse(&tags[i]))
	}
	return views, nil
}

func (s *Service) Tag(ctx context.Context, id int64) (*TagResponse, error) {
	tag, err := s.tags.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	resp := toTagResponse(tag)
	return &resp, nil
}

// Ingredients lists the reference ingredients, optionally filtered by a
// case-sensitive name prefix.
func (s *Service) Ingredients(ctx context.Context, nameQuery string) ([]IngredientResponse, error) {
	ingredients, err := s.ingredients.List(ctx, nameQuery)
	if err != nil {
		return nil, err
	}
	views := make([]IngredientResponse, 0, len(ingredients))
	for i := range ingredients {
		views = append(views, toIngredientResponse(&ingredients[i]))
	}
	return views, nil
}

func (s *Service) Ingredient(ctx context.Context, id int64) (*IngredientResponse, error) {
	ing, err := s.ingredients.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIngredientNotFound
		}
		return nil, err
	}
	resp := toIngredientResponse(ing)
	return &resp, nil
}
