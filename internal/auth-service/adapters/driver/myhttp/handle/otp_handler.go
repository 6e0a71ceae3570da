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

type OtpHandler struct {
	otpService ports.IOtpService
	mylog      mylogger.Logger
}

func NewOtpHandler(otpService ports.IOtpService, mylog mylogger.Logger) *OtpHandler {
	return &OtpHandler{
		otpService: otpService,
		mylog:      mylog,
	}
}

func (oh *OtpHandler) Send() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := oh.mylog.Action("SendOtp")

		var req dto.OtpSendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			mylog.Error("Failed to parse otp body", err)
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		if err := oh.otpService.Send(ctx, req); err != nil {
			jsonError(w, statusFor(err), err)
			return
		}

		jsonResponse(w, http.StatusOK, dto.MessageResponse{Message: "otp sent"})
	}
}

func (oh *OtpHandler) Verify() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := oh.mylog.Action("VerifyOtp")

		var req dto.OtpVerifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			mylog.Error("Failed to parse otp body", err)
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		if err := oh.otpService.Verify(ctx, req); err != nil {
			jsonError(w, statusFor(err), err)
			return
		}

		jsonResponse(w, http.StatusOK, dto.MessageResponse{Message: "otp verified"})
	}
}
