package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fixmate/internal/auth-service/core/domain/dto"
	"fixmate/internal/auth-service/core/domain/models"
	"fixmate/internal/auth-service/core/myerrors"
	"fixmate/internal/auth-service/core/ports"
	"fixmate/internal/config"
	"fixmate/internal/mylogger"

	"github.com/golang-jwt/jwt"
)

const tokenTTL = time.Hour * 24 * 7

type AuthService struct {
	ctx          context.Context
	cfg          *config.Config
	identityRepo ports.IIdentityRepo
	mailer       ports.IMailer
	mylog        mylogger.Logger
}

func NewAuthService(
	ctx context.Context,
	cfg *config.Config,
	identityRepo ports.IIdentityRepo,
	mailer ports.IMailer,
	mylog mylogger.Logger,
) ports.IAuthService {
	return &AuthService{
		ctx:          ctx,
		cfg:          cfg,
		identityRepo: identityRepo,
		mailer:       mailer,
		mylog:        mylog,
	}
}

func (as *AuthService) Register(ctx context.Context, req dto.SignupRequest) (dto.AuthResponse, error) {
	mylog := as.mylog.Action("Register")

	if err := validateSignup(req); err != nil {
		return dto.AuthResponse{}, err
	}

	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("failed to hash password: %v", err)
	}

	identity := models.Identity{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         req.Role,
		Address:      req.Address,
		Phone:        req.PhoneNumber,
	}

	id, err := as.identityRepo.Create(ctx, identity)
	if err != nil {
		if errors.Is(err, myerrors.ErrEmailRegistered) {
			mylog.Warn("Failed to register, email already registered")
			return dto.AuthResponse{}, err
		}
		mylog.Error("Failed to save identity in db", err)
		return dto.AuthResponse{}, fmt.Errorf("cannot save identity in db: %w", err)
	}

	token, err := as.signToken(id, req.Email, req.Role)
	if err != nil {
		mylog.Error("failed to create jwt token", err)
		return dto.AuthResponse{}, err
	}

	mylog.Info("identity registered successfully", "identity-id", id, "role", req.Role)
	return dto.AuthResponse{
		Message:    fmt.Sprintf("%s registered successfully!", req.Name),
		Token:      token,
		IdentityID: id,
	}, nil
}

func (as *AuthService) Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error) {
	mylog := as.mylog.Action("Login")

	if err := validateLogin(req); err != nil {
		return dto.AuthResponse{}, err
	}

	identity, err := as.identityRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, myerrors.ErrNotFound) {
			mylog.Warn("Failed to login, unknown email")
			return dto.AuthResponse{}, fmt.Errorf("%w: unknown email or password", myerrors.ErrUnauthorized)
		}
		mylog.Error("Failed to load identity from db", err)
		return dto.AuthResponse{}, fmt.Errorf("cannot load identity from db: %w", err)
	}

	if !checkPassword(identity.PasswordHash, req.Password) {
		mylog.Debug("Failed to login, wrong password")
		return dto.AuthResponse{}, fmt.Errorf("%w: unknown email or password", myerrors.ErrUnauthorized)
	}

	token, err := as.signToken(identity.ID, identity.Email, identity.Role)
	if err != nil {
		mylog.Error("failed to create jwt token", err)
		return dto.AuthResponse{}, err
	}

	mylog.Info("identity logged in successfully", "identity-id", identity.ID)
	return dto.AuthResponse{
		Message:    "logged in successfully",
		Token:      token,
		IdentityID: identity.ID,
	}, nil
}

func (as *AuthService) Profile(ctx context.Context, identityID string) (dto.ProfileResponse, error) {
	identity, err := as.identityRepo.GetByID(ctx, identityID)
	if err != nil {
		return dto.ProfileResponse{}, err
	}

	return dto.ProfileResponse{
		ID:          identity.ID,
		Name:        identity.Name,
		Email:       identity.Email,
		Role:        identity.Role,
		Address:     identity.Address,
		PhoneNumber: identity.Phone,
		Latitude:    identity.Latitude,
		Longitude:   identity.Longitude,
	}, nil
}

// UpdateLocation stores a mechanic's last-known coordinates. Users have no
// tracked location.
func (as *AuthService) UpdateLocation(ctx context.Context, identityID, role string, req dto.LocationUpdateRequest) error {
	if role != "mechanic" {
		return fmt.Errorf("%w: only mechanics report a location", myerrors.ErrForbidden)
	}

	if req.Latitude == nil || req.Longitude == nil {
		return fmt.Errorf("%w: latitude and longitude are required", myerrors.ErrValidation)
	}

	return as.identityRepo.UpdateLocation(ctx, identityID, *req.Latitude, *req.Longitude)
}

// Sos mails the caller's coordinates to the configured emergency contact.
func (as *AuthService) Sos(ctx context.Context, identityID string, req dto.SosRequest) error {
	mylog := as.mylog.Action("Sos")

	if req.Latitude == nil || req.Longitude == nil {
		return fmt.Errorf("%w: latitude and longitude are required", myerrors.ErrValidation)
	}

	identity, err := as.identityRepo.GetByID(ctx, identityID)
	if err != nil {
		return err
	}

	if err := as.mailer.SendSos(ctx, identity.Name, identity.Email, identity.Phone, *req.Latitude, *req.Longitude); err != nil {
		mylog.Error("failed to send sos mail", err, "identity-id", identityID)
		return fmt.Errorf("%w: %v", myerrors.ErrCollaborator, err)
	}

	mylog.Info("sos mail sent", "identity-id", identityID)
	return nil
}

func (as *AuthService) signToken(id, email, role string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"identity_id": id,
		"email":       email,
		"role":        role,
		"exp":         time.Now().Add(tokenTTL).Unix(),
	})
	return token.SignedString([]byte(as.cfg.App.JwtSecret))
}
