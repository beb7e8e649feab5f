package favorite

import "errors"

var (
	ErrRecipeNotFound   = errors.New("recipe not found")
	ErrAlreadyFavorited = errors.New("recipe is already in favorites")
	ErrNotFavorited     = errors.New("recipe is not in favorites")
)
