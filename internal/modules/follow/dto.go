package follow

import "cookbook/internal/domain"

type RecipeBrief struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// AuthorResponse is a followed author with their recipes, as returned by
// the subscribe endpoint and the subscriptions listing.
type AuthorResponse struct {
	Email        string        `json:"email"`
	ID           int64         `json:"id"`
	Username     string        `json:"username"`
	FirstName    string        `json:"first_name"`
	LastName     string        `json:"last_name"`
	IsSubscribed bool          `json:"is_subscribed"`
	Recipes      []RecipeBrief `json:"recipes"`
	RecipesCount int64         `json:"recipes_count"`
}

type SubscriptionsResponse struct {
	Authors    []AuthorResponse `json:"authors"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

func toAuthorResponse(u *domain.User, recipes []domain.Recipe, recipesCount int64, recipesLimit int) AuthorResponse {
	briefs := make([]RecipeBrief, 0, len(recipes))
	for _, r := range recipes {
		if recipesLimit > 0 && len(briefs) >= recipesLimit {
			break
		}
		briefs = append(briefs, RecipeBrief{
			ID:          r.ID,
			Name:        r.Name,
			Image:       r.Image,
			CookingTime: r.CookingTime,
		})
	}

	return AuthorResponse{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: true,
		Recipes:      briefs,
		RecipesCount: recipesCount,
	}
}
