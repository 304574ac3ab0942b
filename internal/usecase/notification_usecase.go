package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/storeforge/backend/internal/domain"
	"github.com/storeforge/backend/pkg/e"
	"github.com/storeforge/backend/pkg/logger"
)

// NotificationUseCase маршрутизирует уведомления по каналам. Для SMS
// действует обход провайдеров по порядку: первый успех завершает отправку,
// отказ всех провайдеров — жёсткая ошибка без автоматического повтора.
type NotificationUseCase struct {
	smsProviders    map[string]SmsStrategy
	failoverOrder   []string
	defaultProvider string
	email           EmailStrategy
	logger          logger.Logger
}

func NewNotificationUC(
	smsProviders map[string]SmsStrategy,
	failoverOrder []string,
	defaultProvider string,
	email EmailStrategy,
	logger logger.Logger,
) *NotificationUseCase {
	return &NotificationUseCase{
		smsProviders:    smsProviders,
		failoverOrder:   failoverOrder,
		defaultProvider: defaultProvider,
		email:           email,
		logger:          logger,
	}
}

// Dispatch отправляет уведомление по каждому из указанных каналов.
func (n *NotificationUseCase) Dispatch(ctx context.Context, req *NotifyReq) error {
	const op = "NotificationUseCase.Dispatch"

	if len(req.Channels) == 0 {
		return e.Wrap(op, e.ErrChannelRequired)
	}

	if strings.TrimSpace(req.Recipient) == "" {
		return e.Wrap(op, e.ErrRecipientRequired)
	}

	for _, channel := range req.Channels {
		switch channel {
		case domain.ChannelSms:
			if err := n.dispatchSms(ctx, req); err != nil {
				return e.Wrap(op, err)
			}
		case domain.ChannelEmail:
			if err := n.dispatchEmail(ctx, req); err != nil {
				return e.Wrap(op, err)
			}
		default:
			return e.Wrap(op, fmt.Errorf("%w: %s", e.ErrUnsupportedChannel, channel))
		}
	}

	return nil
}

// SmsCredit возвращает остаток средств у провайдера по умолчанию.
// Обход провайдеров здесь не применяется: запрос информационный.
func (n *NotificationUseCase) SmsCredit(ctx context.Context) (float64, error) {
	const op = "NotificationUseCase.SmsCredit"

	provider, ok := n.smsProviders[n.defaultProvider]
	if !ok {
		return 0, e.Wrap(op, fmt.Errorf("%w: %s", e.ErrUnknownProvider, n.defaultProvider))
	}

	credit, err := provider.Credit(ctx)
	if err != nil {
		return 0, e.Wrap(op, err)
	}

	return credit, nil
}

func (n *NotificationUseCase) dispatchSms(ctx context.Context, req *NotifyReq) error {
	if req.Body == "" && req.PatternCode == "" {
		return e.ErrSmsContentType
	}

	// Явно указанный провайдер используется без обхода
	if req.Provider != "" {
		provider, ok := n.smsProviders[req.Provider]
		if !ok {
			return fmt.Errorf("%w: %s", e.ErrUnknownProvider, req.Provider)
		}

		return n.sendOne(ctx, provider, req)
	}

	return n.sendWithFailover(ctx, req)
}

// sendWithFailover перебирает провайдеров в настроенном порядке.
// Отказ одного провайдера пишется в лог и не прерывает обход; ошибка,
// не являющаяся отказом отправки, прерывает обход немедленно.
func (n *NotificationUseCase) sendWithFailover(ctx context.Context, req *NotifyReq) error {
	var lastErr error

	for _, alias := range n.failoverOrder {
		provider, ok := n.smsProviders[alias]
		if !ok {
			n.logger.Warnf("sms provider not registered, skipping. alias: %s", alias)
			continue
		}

		err := n.sendOne(ctx, provider, req)
		if err == nil {
			return nil
		}

		if !errors.Is(err, e.ErrSending) {
			return err
		}

		n.logger.Warnf("sms provider failed, trying next. alias: %s, recipient: %s, error: %v",
			alias, req.Recipient, err)
		lastErr = err
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no sms providers configured")
	}

	return fmt.Errorf("%w: %v", e.ErrAllProvidersFailed, lastErr)
}

func (n *NotificationUseCase) sendOne(ctx context.Context, provider SmsStrategy, req *NotifyReq) error {
	if req.PatternCode != "" {
		return provider.SendPattern(ctx, req.Recipient, req.PatternCode, req.PatternParams)
	}

	return provider.Send(ctx, req.Recipient, req.Body)
}

func (n *NotificationUseCase) dispatchEmail(ctx context.Context, req *NotifyReq) error {
	if req.Subject == "" || req.Body == "" {
		return e.ErrEmailContentType
	}

	// Транспорт почты ровно один, обхода нет
	return n.email.Send(ctx, req.Recipient, req.Subject, req.Body)
}
