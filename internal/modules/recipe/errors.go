package recipe

import "errors"

var (
	ErrEmptyTags            = errors.New("tags must not be empty")
	ErrDuplicateTags        = errors.New("tags must not repeat")
	ErrEmptyIngredients     = errors.New("ingredients must not be empty")
	ErrDuplicateIngredients = errors.New("ingredients must not repeat")
	ErrInvalidAmount        = errors.New("ingredient amount must be at least 1")
	ErrInvalidCookingTime   = errors.New("cooking time must be at least 1 minute")

	ErrNotFound           = errors.New("recipe not found")
	ErrTagNotFound        = errors.New("tag does not exist")
	ErrIngredientNotFound = errors.New("ingredient does not exist")
	ErrForbidden          = errors.New("only the author may modify this recipe")
	ErrConflict           = errors.New("recipe write conflicted with a concurrent request")
	ErrInvalidImage       = errors.New("image payload is not valid base64")
)

// IsValidationError reports whether err is one of the pure input checks,
// all of which abort the write before any store access.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmptyTags) ||
		errors.Is(err, ErrDuplicateTags) ||
		errors.Is(err, ErrEmptyIngredients) ||
		errors.Is(err, ErrDuplicateIngredients) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidCookingTime)
}
