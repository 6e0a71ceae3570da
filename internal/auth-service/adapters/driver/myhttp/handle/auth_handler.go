package handle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"fixmate/internal/auth-service/core/domain/dto"
	"fixmate/internal/auth-service/core/ports"
	"fixmate/internal/mylogger"
)

type AuthHandler struct {
	authService ports.IAuthService
	mylog       mylogger.Logger
}

func NewAuthHandler(authService ports.IAuthService, mylog mylogger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		mylog:       mylog,
	}
}

func (ah *AuthHandler) Signup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := ah.mylog.Action("Signup")

		var req dto.SignupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			mylog.Error("Failed to parse signup body", err)
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		res, err := ah.authService.Register(ctx, req)
		if err != nil {
			jsonError(w, statusFor(err), err)
			return
		}

		mylog.Info("Successfully registered!", "identity-id", res.IdentityID)
		jsonResponse(w, http.StatusCreated, res)
	}
}

func (ah *AuthHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := ah.mylog.Action("Login")

		var req dto.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			mylog.Error("Failed to parse login body", err)
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		res, err := ah.authService.Login(ctx, req)
		if err != nil {
			jsonError(w, statusFor(err), err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (ah *AuthHandler) Profile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		res, err := ah.authService.Profile(ctx, identity(r))
		if err != nil {
			jsonError(w, statusFor(err), err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (ah *AuthHandler) UpdateLocation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := ah.mylog.Action("UpdateLocation")

		var req dto.LocationUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			mylog.Error("Failed to parse location body", err)
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		if err := ah.authService.UpdateLocation(ctx, identity(r), role(r), req); err != nil {
			jsonError(w, statusFor(err), err)
			return
		}

		jsonResponse(w, http.StatusOK, dto.MessageResponse{Message: "location updated"})
	}
}

func (ah *AuthHandler) Sos() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := ah.mylog.Action("Sos")

		var req dto.SosRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			mylog.Error("Failed to parse sos body", err)
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		if err := ah.authService.Sos(ctx, identity(r), req); err != nil {
			jsonError(w, statusFor(err), err)
			return
		}

		mylog.Info("sos dispatched", "identity-id", identity(r))
		jsonResponse(w, http.StatusOK, dto.MessageResponse{Message: "sos sent"})
	}
}
