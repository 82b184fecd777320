package notifications

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// FromConfig combines the webhook and AMQP notifiers that are configured.
// The returned close func releases the broker connection, if any.
func FromConfig(webhookURL string, amqpCfg AMQPConfig, logger *slog.Logger) (*MultiNotifier, func() error, error) {
	var (
		items   []Notifier
		closers []func() error
	)

	if strings.TrimSpace(webhookURL) != "" {
		webhook, err := NewWebhookNotifier(webhookURL)
		if err != nil {
			return nil, nil, fmt.Errorf("configure webhook notifier: %w", err)
		}
		items = append(items, webhook)
	}

	if strings.TrimSpace(amqpCfg.URL) != "" {
		publisher, err := NewAMQPNotifier(amqpCfg, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("configure amqp notifier: %w", err)
		}
		items = append(items, publisher)
		closers = append(closers, publisher.Close)
	}

	closeAll := func() error {
		var errs []error
		for _, closer := range closers {
			errs = append(errs, closer())
		}
		return errors.Join(errs...)
	}
	return NewMultiNotifier(items...), closeAll, nil
}
