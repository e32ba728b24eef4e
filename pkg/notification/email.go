package notification

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"movie-catalog/pkg/utils"

	"github.com/go-mail/mail/v2"
	"go.uber.org/zap"
)

// EmailSender delivers account e-mails
type EmailSender interface {
	SendActivationEmail(ctx context.Context, email, activationLink, fullname string) error
}

var activationTemplate = template.Must(template.New("activation").Parse(`<html>
<head></head>
<body>
    <div style="border: 1px solid #ddd; border-radius: 8px; padding: 20px; max-width: 400px; margin: 20px auto; font-family: Arial, sans-serif; background-color: #f9f9f9;">
        <h2 style="color: #007BFF; text-align: center; margin-top: 0;">Welcome to Our Platform</h2>
        <p>Dear {{.Fullname}},</p>
        <p>Thank you for registering! To complete your registration, please follow the activation link below:</p>
        <p style="font-size: 18px; font-weight: bold; background-color: #FFEB3B; text-align: center; padding: 10px; border-radius: 4px; word-break: break-all;"><a href="{{.Link}}">{{.Link}}</a></p>
        <p>Regards,</p>
        <p style="font-style: italic;">The Movie Catalog team</p>
    </div>
</body>
</html>`))

// SMTPSender sends mail through an SMTP server
type SMTPSender struct {
	dialer *mail.Dialer
	from   string
	log    *zap.Logger
}

func NewSMTPSender(config utils.EmailConfig, log *zap.Logger) *SMTPSender {
	dialer := mail.NewDialer(config.Host, config.Port, config.User, config.Password)
	dialer.Timeout = 10 * time.Second

	return &SMTPSender{
		dialer: dialer,
		from:   config.From,
		log:    log.With(zap.String("notification", "smtp")),
	}
}

func (s *SMTPSender) SendActivationEmail(ctx context.Context, email, activationLink, fullname string) error {
	body, err := RenderActivation(activationLink, fullname)
	if err != nil {
		return err
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Activation Token")
	msg.SetBody("text/plain", fmt.Sprintf("Dear %s,\n\nActivate your account: %s\n", fullname, activationLink))
	msg.AddAlternative("text/html", body)

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			s.log.Error("Failed to send activation email", zap.Error(err), zap.String("email", email))
			return fmt.Errorf("send activation email to %s: %w", email, err)
		}
	case <-ctx.Done():
		return fmt.Errorf("send activation email to %s: %w", email, ctx.Err())
	}

	s.log.Info("Activation email sent", zap.String("email", email))
	return nil
}

// RenderActivation renders the HTML body of the activation e-mail
func RenderActivation(activationLink, fullname string) (string, error) {
	var buf bytes.Buffer
	err := activationTemplate.Execute(&buf, struct {
		Fullname string
		Link     string
	}{fullname, activationLink})
	if err != nil {
		return "", fmt.Errorf("render activation email: %w", err)
	}
	return buf.String(), nil
}

// LogSender only logs the message. Used when no SMTP host is configured.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log.With(zap.String("notification", "log"))}
}

func (s *LogSender) SendActivationEmail(ctx context.Context, email, activationLink, fullname string) error {
	s.log.Info("Activation email",
		zap.String("email", email),
		zap.String("fullname", fullname),
		zap.String("link", activationLink),
	)
	return nil
}
