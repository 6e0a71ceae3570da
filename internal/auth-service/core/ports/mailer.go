package ports

import "context"

type IMailer interface {
	SendOtp(ctx context.Context, to, code string) error
	SendSos(ctx context.Context, name, email, phone string, latitude, longitude float64) error
}
