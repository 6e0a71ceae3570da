package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"fixmate/internal/auth-service/core/ports"
	"fixmate/internal/config"
	"fixmate/internal/mylogger"
)

// Mailer sends transactional mail over plain SMTP with AUTH PLAIN. OTP codes
// go to the account owner; SOS alerts go to the configured emergency contact.
type Mailer struct {
	cfg   *config.Smtpconfig
	mylog mylogger.Logger
}

func New(cfg *config.Smtpconfig, mylog mylogger.Logger) ports.IMailer {
	return &Mailer{
		cfg:   cfg,
		mylog: mylog,
	}
}

func (m *Mailer) SendOtp(ctx context.Context, to, code string) error {
	subject := "Your verification code"
	body := fmt.Sprintf("Your one-time verification code is %s.\r\nIt expires in 10 minutes.", code)

	return m.send(ctx, to, subject, body)
}

func (m *Mailer) SendSos(ctx context.Context, name, email, phone string, latitude, longitude float64) error {
	subject := fmt.Sprintf("SOS alert from %s", name)
	body := strings.Join([]string{
		fmt.Sprintf("%s (%s, %s) triggered an SOS.", name, email, phone),
		fmt.Sprintf("Last known position: %f,%f", latitude, longitude),
		fmt.Sprintf("https://www.google.com/maps?q=%f,%f", latitude, longitude),
	}, "\r\n")

	return m.send(ctx, m.cfg.SosRecipient, subject, body)
}

func (m *Mailer) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.cfg.From, to, subject, body)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		m.mylog.Action("send_mail").Error("smtp send failed", err, "to", to)
		return err
	}
	return nil
}
