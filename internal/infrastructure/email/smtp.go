package email

import (
	"context"

	"github.com/storeforge/backend/internal/cfg"
	"github.com/storeforge/backend/pkg/e"
	"github.com/storeforge/backend/pkg/logger"
	"gopkg.in/gomail.v2"
)

// SmtpSender — единственный транспорт электронной почты.
// Обхода провайдеров для почты нет.
type SmtpSender struct {
	dialer *gomail.Dialer
	cfg    *cfg.SmtpCfg
	logger logger.Logger
}

func NewSmtpSender(cfg *cfg.SmtpCfg, logger logger.Logger) *SmtpSender {
	return &SmtpSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		cfg:    cfg,
		logger: logger,
	}
}

func (s *SmtpSender) Send(ctx context.Context, recipient, subject, body string) error {
	const op = "SmtpSender.Send"

	message := gomail.NewMessage()
	message.SetHeader("From", message.FormatAddress(s.cfg.From, s.cfg.FromName))
	message.SetHeader("To", recipient)
	message.SetHeader("Subject", subject)
	message.SetBody("text/html", body)

	// gomail не принимает контекст, отправка выносится в горутину
	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(message)
	}()

	select {
	case err := <-done:
		if err != nil {
			return e.Wrap(op, err)
		}
	case <-ctx.Done():
		return e.Wrap(op, ctx.Err())
	}

	s.logger.Infof("email sent. recipient: %s, subject: %s", recipient, subject)
	return nil
}
