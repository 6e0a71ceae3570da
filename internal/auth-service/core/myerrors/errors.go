package myerrors

import "errors"

var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrEmailRegistered = errors.New("email already registered")
	ErrOtpExpired      = errors.New("otp expired")
	ErrOtpMismatch     = errors.New("otp does not match")
	ErrCollaborator    = errors.New("collaborator failure")
)
