package cart

import "cookbook/internal/domain"

// RecipeBrief is the short recipe card returned by the toggle endpoint.
type RecipeBrief struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

func toRecipeBrief(r *domain.Recipe) *RecipeBrief {
	return &RecipeBrief{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}
