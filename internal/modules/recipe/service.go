package recipe

import (
	"context"
	"errors"

	"cookbook/internal/domain"
	"cookbook/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	recipes   RecipeStore
	favorites MembershipStore
	carts     MembershipStore
	follows   FollowStore
	images    ImageStore
}

func NewService(recipes RecipeStore, favorites, carts MembershipStore, follows FollowStore, images ImageStore) *Service {
	return &Service{
		recipes:   recipes,
		favorites: favorites,
		carts:     carts,
		follows:   follows,
		images:    images,
	}
}

// Create validates the input, stores the image payload and writes the
// recipe with its tag and ingredient sets in one atomic transaction.
func (s *Service) Create(ctx context.Context, viewer domain.Viewer, req CreateRecipeRequest) (*RecipeResponse, error) {
	ingredients := toIngredientAmounts(req.Ingredients)
	if err := validateRecipeInput(req.CookingTime, req.Tags, ingredients); err != nil {
		return nil, err
	}

	imageRef, err := s.images.Save(req.Image)
	if err != nil {
		return nil, ErrInvalidImage
	}

	r := &domain.Recipe{
		AuthorID:    viewer.UserID,
		Name:        req.Name,
		Image:       imageRef,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}
	if err := s.recipes.Create(ctx, r, req.Tags, ingredients); err != nil {
		return nil, mapStoreError(err)
	}

	return s.Get(ctx, viewer, r.ID)
}

// Update replaces the recipe fields and its tag/ingredient sets
// wholesale. Only the author or an admin may call it.
func (s *Service) Update(ctx context.Context, viewer domain.Viewer, recipeID int64, req UpdateRecipeRequest) (*RecipeResponse, error) {
	existing, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if existing.AuthorID != viewer.UserID && !viewer.IsAdmin() {
		return nil, ErrForbidden
	}

	ingredients := toIngredientAmounts(req.Ingredients)
	if err := validateRecipeInput(req.CookingTime, req.Tags, ingredients); err != nil {
		return nil, err
	}

	image := existing.Image
	if req.Image != "" {
		image, err = s.images.Save(req.Image)
		if err != nil {
			return nil, ErrInvalidImage
		}
	}

	r := &domain.Recipe{
		ID:          recipeID,
		AuthorID:    existing.AuthorID,
		Name:        req.Name,
		Image:       image,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}
	if err := s.recipes.Update(ctx, r, req.Tags, ingredients); err != nil {
		return nil, mapStoreError(err)
	}

	return s.Get(ctx, viewer, recipeID)
}

// Delete removes the recipe and all rows referencing it. Only the author
// or an admin may call it.
func (s *Service) Delete(ctx context.Context, viewer domain.Viewer, recipeID int64) error {
	existing, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return mapStoreError(err)
	}
	if existing.AuthorID != viewer.UserID && !viewer.IsAdmin() {
		return ErrForbidden
	}
	return mapStoreError(s.recipes.Delete(ctx, recipeID))
}

func (s *Service) Get(ctx context.Context, viewer domain.Viewer, recipeID int64) (*RecipeResponse, error) {
	r, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	views, err := s.annotate(ctx, viewer, []domain.Recipe{*r})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// List returns a page of recipes annotated with the viewer's favorite,
// cart and subscription flags. The is_favorited / is_in_shopping_cart
// filters are no-ops for anonymous viewers.
func (s *Service) List(ctx context.Context, viewer domain.Viewer, query ListQuery) (*ListResponse, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 || limit > 100 {
		limit = 10
	}

	filter := repository.RecipeFilter{
		TagSlugs: query.TagSlugs,
		AuthorID: query.AuthorID,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}
	if viewer.Authenticated() {
		if query.IsFavorited {
			filter.FavoritedBy = viewer.UserID
		}
		if query.IsInShoppingCart {
			filter.InCartOf = viewer.UserID
		}
	}

	recipes, total, err := s.recipes.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	views, err := s.annotate(ctx, viewer, recipes)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}
	return &ListResponse{
		Recipes:    views,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// annotate computes the viewer-relative flags for a page of recipes with
// one membership query per relation, never one per recipe. Anonymous
// viewers get all-false flags.
func (s *Service) annotate(ctx context.Context, viewer domain.Viewer, recipes []domain.Recipe) ([]RecipeResponse, error) {
	recipeIDs := make([]int64, 0, len(recipes))
	authorIDs := make([]int64, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	favorited, err := s.favorites.SetForRecipes(ctx, viewer.UserID, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := s.carts.SetForRecipes(ctx, viewer.UserID, recipeIDs)
	if err != nil {
		return nil, err
	}
	subscribed, err := s.follows.SetForAuthors(ctx, viewer.UserID, authorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		views = append(views, toRecipeResponse(r, favorited[r.ID], inCart[r.ID], subscribed[r.AuthorID]))
	}
	return views, nil
}

func toIngredientAmounts(inputs []IngredientInput) []repository.IngredientAmount {
	out := make([]repository.IngredientAmount, 0, len(inputs))
	for _, in := range inputs {
		out = append(out, repository.IngredientAmount{IngredientID: in.ID, Amount: in.Amount})
	}
	return out
}

func mapStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrTagMissing):
		return ErrTagNotFound
	case errors.Is(err, repository.ErrIngredientMissing):
		return ErrIngredientNotFound
	case repository.IsUniqueViolation(err):
		return ErrConflict
	default:
		return err
	}
}
