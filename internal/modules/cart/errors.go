package cart

import "errors"

var (
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrAlreadyInCart  = errors.New("recipe is already in the shopping cart")
	ErrNotInCart      = errors.New("recipe is not in the shopping cart")
)
