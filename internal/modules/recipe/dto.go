package recipe

import "cookbook/internal/domain"

type IngredientInput struct {
	ID     int64 `json:"id" validate:"required"`
	Amount int   `json:"amount"`
}

type CreateRecipeRequest struct {
	Name        string            `json:"name" validate:"required,max=200"`
	Image       string            `json:"image" validate:"required"`
	Text        string            `json:"text" validate:"required"`
	CookingTime int               `json:"cooking_time"`
	Tags        []int64           `json:"tags"`
	Ingredients []IngredientInput `json:"ingredients"`
}

// UpdateRecipeRequest mirrors create; an empty image keeps the stored one.
type UpdateRecipeRequest struct {
	Name        string            `json:"name" validate:"required,max=200"`
	Image       string            `json:"image"`
	Text        string            `json:"text" validate:"required"`
	CookingTime int               `json:"cooking_time"`
	Tags        []int64           `json:"tags"`
	Ingredients []IngredientInput `json:"ingredients"`
}

// ListQuery carries the supported recipe filters. IsFavorited and
// IsInShoppingCart are ignored for anonymous viewers.
type ListQuery struct {
	TagSlugs         []string
	AuthorID         int64
	IsFavorited      bool
	IsInShoppingCart bool
	Page             int
	Limit            int
}

type AuthorResponse struct {
	Email        string `json:"email"`
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

type IngredientResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeResponse struct {
	ID               int64                `json:"id"`
	Tags             []domain.Tag         `json:"tags"`
	Author           AuthorResponse       `json:"author"`
	Ingredients      []IngredientResponse `json:"ingredients"`
	IsFavorited      bool                 `json:"is_favorited"`
	IsInShoppingCart bool                 `json:"is_in_shopping_cart"`
	Name             string               `json:"name"`
	Image            string               `json:"image"`
	Text             string               `json:"text"`
	CookingTime      int                  `json:"cooking_time"`
}

type ListResponse struct {
	Recipes    []RecipeResponse `json:"recipes"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

func toAuthorResponse(u *domain.User, isSubscribed bool) AuthorResponse {
	if u == nil {
		return AuthorResponse{}
	}
	return AuthorResponse{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
	}
}

func toRecipeResponse(r *domain.Recipe, favorited, inCart, subscribed bool) RecipeResponse {
	ingredients := make([]IngredientResponse, 0, len(r.Ingredients))
	for _, ri := range r.Ingredients {
		item := IngredientResponse{
			ID:     ri.IngredientID,
			Amount: ri.Amount,
		}
		if ri.Ingredient != nil {
			item.Name = ri.Ingredient.Name
			item.MeasurementUnit = ri.Ingredient.MeasurementUnit
		}
		ingredients = append(ingredients, item)
	}

	tags := r.Tags
	if tags == nil {
		tags = []domain.Tag{}
	}

	return RecipeResponse{
		ID:               r.ID,
		Tags:             tags,
		Author:           toAuthorResponse(r.Author, subscribed),
		Ingredients:      ingredients,
		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
}
