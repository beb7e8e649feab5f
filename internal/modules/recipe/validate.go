package recipe

import "cookbook/internal/repository"

// validateRecipeInput checks the candidate tag and ingredient sets of a
// recipe write. Pure function of its input; returns the first failing
// check as a sentinel error.
func validateRecipeInput(cookingTime int, tagIDs []int64, ingredients []repository.IngredientAmount) error {
	if len(tagIDs) == 0 {
		return ErrEmptyTags
	}
	seenTags := make(map[int64]struct{}, len(tagIDs))
	for _, id := range tagIDs {
		if _, ok := seenTags[id]; ok {
			return ErrDuplicateTags
		}
		seenTags[id] = struct{}{}
	}

	if len(ingredients) == 0 {
		return ErrEmptyIngredients
	}
	seenIngredients := make(map[int64]struct{}, len(ingredients))
	for _, item := range ingredients {
		if _, ok := seenIngredients[item.IngredientID]; ok {
			return ErrDuplicateIngredients
		}
		seenIngredients[item.IngredientID] = struct{}{}
	}
	for _, item := range ingredients {
		if item.Amount < 1 {
			return ErrInvalidAmount
		}
	}

	if cookingTime < 1 {
		return ErrInvalidCookingTime
	}
	return nil
}
