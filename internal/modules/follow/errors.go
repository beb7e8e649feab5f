package follow

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrSelfFollow       = errors.New("you cannot follow yourself")
	ErrAlreadyFollowing = errors.New("you already follow this user")
	ErrNotFollowing     = errors.New("you do not follow this user")
)
