package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"fixmate/internal/auth-service/core/domain/dto"
	"fixmate/internal/auth-service/core/domain/models"
	"fixmate/internal/auth-service/core/myerrors"
	"fixmate/internal/auth-service/core/ports"
	"fixmate/internal/mylogger"
)

const otpTTL = 10 * time.Minute

// OtpService issues and checks single-use email verification codes. Sending
// a new code replaces any outstanding one for that email.
type OtpService struct {
	ctx     context.Context
	otpRepo ports.IOtpRepo
	mailer  ports.IMailer
	mylog   mylogger.Logger
	now     func() time.Time
}

func NewOtpService(
	ctx context.Context,
	otpRepo ports.IOtpRepo,
	mailer ports.IMailer,
	mylog mylogger.Logger,
) ports.IOtpService {
	return &OtpService{
		ctx:     ctx,
		otpRepo: otpRepo,
		mailer:  mailer,
		mylog:   mylog,
		now:     time.Now,
	}
}

func (os *OtpService) Send(ctx context.Context, req dto.OtpSendRequest) error {
	mylog := os.mylog.Action("SendOtp")

	if err := validateEmail(req.Email); err != nil {
		return fmt.Errorf("%w: invalid email: %v", myerrors.ErrValidation, err)
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("failed to generate otp: %v", err)
	}

	otp := models.Otp{
		Email:     req.Email,
		Code:      code,
		ExpiresAt: os.now().Add(otpTTL),
	}
	if err := os.otpRepo.Upsert(ctx, otp); err != nil {
		mylog.Error("failed to store otp", err)
		return err
	}

	if err := os.mailer.SendOtp(ctx, req.Email, code); err != nil {
		mylog.Error("failed to mail otp", err)
		return fmt.Errorf("%w: %v", myerrors.ErrCollaborator, err)
	}

	mylog.Info("otp sent", "email", req.Email)
	return nil
}

func (os *OtpService) Verify(ctx context.Context, req dto.OtpVerifyRequest) error {
	mylog := os.mylog.Action("VerifyOtp")

	if err := validateEmail(req.Email); err != nil {
		return fmt.Errorf("%w: invalid email: %v", myerrors.ErrValidation, err)
	}
	if req.Code == "" {
		return fmt.Errorf("%w: code is required", myerrors.ErrValidation)
	}

	otp, err := os.otpRepo.Get(ctx, req.Email)
	if err != nil {
		if errors.Is(err, myerrors.ErrNotFound) {
			return fmt.Errorf("%w: no code issued for this email", myerrors.ErrOtpMismatch)
		}
		return err
	}

	if otp.Verified {
		return fmt.Errorf("%w: code already used", myerrors.ErrOtpMismatch)
	}

	if os.now().After(otp.ExpiresAt) {
		return myerrors.ErrOtpExpired
	}

	if otp.Code != req.Code {
		return myerrors.ErrOtpMismatch
	}

	if err := os.otpRepo.Consume(ctx, req.Email); err != nil {
		mylog.Error("failed to consume otp", err)
		return err
	}

	mylog.Info("otp verified", "email", req.Email)
	return nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
