package emitter

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"CoinLake/internal/domain/models"
	pkgkafka "CoinLake/pkg/kafka"
	applogger "CoinLake/pkg/logger"
)

// KafkaNotifier publishes alerts to a Kafka topic, keyed by asset so one
// asset's alerts stay in order on a single partition.
type KafkaNotifier struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaNotifier(producer *pkgkafka.Producer, topic string) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, topic: topic}
}

func (n *KafkaNotifier) Send(ctx context.Context, alert models.Alert) error {
	return n.producer.Publish(ctx, n.topic, []byte(alert.AssetID), alert)
}

func (n *KafkaNotifier) Close() error {
	return n.producer.Close()
}

// WebhookNotifier POSTs each alert as JSON to a configured URL.
type WebhookNotifier struct {
	http *resty.Client
	url  string
}

func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	return &WebhookNotifier{
		http: resty.New().SetTimeout(timeout),
		url:  url,
	}
}

func (n *WebhookNotifier) Send(ctx context.Context, alert models.Alert) error {
	resp, err := n.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(alert).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("webhook send: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook send: status %d", resp.StatusCode())
	}
	return nil
}

func (n *WebhookNotifier) Close() error { return nil }

// LogNotifier writes alerts to the structured log. Default channel for
// local runs and the fallback when no external channel is configured.
type LogNotifier struct {
	l *applogger.Logger
}

func NewLogNotifier(l *applogger.Logger) *LogNotifier {
	return &LogNotifier{l: l}
}

func (n *LogNotifier) Send(_ context.Context, alert models.Alert) error {
	fields := []applogger.Field{
		applogger.String("asset", alert.AssetID),
		applogger.String("date", alert.Date),
		applogger.String("signal", string(alert.Signal)),
		applogger.Float64("price", alert.Price),
	}
	if alert.SMA != nil {
		fields = append(fields, applogger.Float64("sma", *alert.SMA))
	}
	if alert.Momentum != nil {
		fields = append(fields, applogger.Float64("momentum", *alert.Momentum))
	}
	n.l.Info("signal alert", fields...)
	return nil
}

func (n *LogNotifier) Close() error { return nil }

// NoopNotifier discards every alert. Used when alerting is switched off.
type NoopNotifier struct{}

func (NoopNotifier) Send(context.Context, models.Alert) error { return nil }
func (NoopNotifier) Close() error                             { return nil }
