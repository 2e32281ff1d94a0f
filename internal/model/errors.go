package model

import "errors"

// Error taxonomy. Every failure is caught at the operation boundary and
// converted to a single user-visible message; none may crash the server.
var (
	ErrNotFound         = errors.New("no user with that username")
	ErrSelfReferential  = errors.New("you cannot befriend yourself")
	ErrAlreadyFriends   = errors.New("you are already friends")
	ErrBlocked          = errors.New("this user is blocked")
	ErrDuplicateRequest = errors.New("friend request already pending")
	ErrValidation       = errors.New("invalid input")
	ErrAuth             = errors.New("invalid credentials")
	ErrUserExists       = errors.New("username or email already taken")
	ErrForbidden        = errors.New("not allowed")
)
