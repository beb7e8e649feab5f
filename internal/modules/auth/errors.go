package auth

import "errors"

var (
	ErrEmailAlreadyExists    = errors.New("a user with that email already exists")
	ErrUsernameAlreadyExists = errors.New("a user with that username already exists")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrUserNotFound          = errors.New("user not found")
	ErrWrongPassword         = errors.New("current password is incorrect")
)
