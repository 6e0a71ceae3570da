package myerrors

import "errors"

// Failure classes of the lifecycle engine and its collaborators. Handlers
// map these onto HTTP status codes; everything else is an internal error.
var (
	ErrValidation        = errors.New("invalid request payload")
	ErrUnauthorized      = errors.New("authentication required")
	ErrForbidden         = errors.New("operation not permitted for this identity")
	ErrNotFound          = errors.New("request not found")
	ErrInvalidTransition = errors.New("transition not legal from current status")
	ErrConflict          = errors.New("request already claimed by another mechanic")
	ErrCollaborator      = errors.New("external collaborator failure")
)
