package service

import (
	"fmt"
	"strings"

	"fixmate/internal/auth-service/core/domain/dto"
	"fixmate/internal/auth-service/core/myerrors"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinNameLen = 1
	MaxNameLen = 100

	MinEmailLen = 5
	MaxEmailLen = 100

	MinPasswordLen = 5
	MaxPasswordLen = 50

	HashFactor = 10
)

var allowedRoles = map[string]bool{
	"user":     true,
	"mechanic": true,
}

func validateSignup(req dto.SignupRequest) error {
	if err := validateName(req.Name); err != nil {
		return fmt.Errorf("%w: invalid name: %v", myerrors.ErrValidation, err)
	}

	if err := validateEmail(req.Email); err != nil {
		return fmt.Errorf("%w: invalid email: %v", myerrors.ErrValidation, err)
	}

	if err := validatePassword(req.Password); err != nil {
		return fmt.Errorf("%w: invalid password: %v", myerrors.ErrValidation, err)
	}

	if !allowedRoles[req.Role] {
		return fmt.Errorf("%w: role must be user or mechanic, got %q", myerrors.ErrValidation, req.Role)
	}

	return nil
}

func validateLogin(req dto.LoginRequest) error {
	if err := validateEmail(req.Email); err != nil {
		return fmt.Errorf("%w: invalid email: %v", myerrors.ErrValidation, err)
	}

	if err := validatePassword(req.Password); err != nil {
		return fmt.Errorf("%w: invalid password: %v", myerrors.ErrValidation, err)
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("field is empty")
	}

	nameLen := len(name)
	if nameLen < MinNameLen || nameLen > MaxNameLen {
		return fmt.Errorf("must be in range [%d, %d]", MinNameLen, MaxNameLen)
	}

	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("field is empty")
	}

	emailLen := len(email)
	if emailLen < MinEmailLen || emailLen > MaxEmailLen {
		return fmt.Errorf("must be in range [%d, %d]", MinEmailLen, MaxEmailLen)
	}

	if strings.Count(email, "@") != 1 {
		return fmt.Errorf("must contain only one @: %s", email)
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("field is empty")
	}

	passwordLen := len(password)
	if passwordLen < MinPasswordLen || passwordLen > MaxPasswordLen {
		return fmt.Errorf("must be in range [%d, %d]", MinPasswordLen, MaxPasswordLen)
	}
	return nil
}

func hashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), HashFactor)
}

func checkPassword(hashed []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hashed, []byte(password)) == nil
}
