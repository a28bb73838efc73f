// Package events publishes ledger audit events to Kafka. The feed is an
// outbound convenience for downstream analytics; ledger correctness never
// depends on a publish succeeding.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/kabadiconnect/kabadi-backend/internal/config"
)

// TransactionLogged is emitted after a pickup transaction commits.
type TransactionLogged struct {
	Type             string    `json:"type"`
	TransactionID    string    `json:"transactionId"`
	CollectorID      string    `json:"collectorId"`
	MaterialType     string    `json:"materialType"`
	WeightKg         float64   `json:"weightKg"`
	AmountPaid       float64   `json:"amountPaid"`
	CoinsEarned      int       `json:"coinsEarned"`
	DailyCollectedKg float64   `json:"dailyCollectedKg"`
	LoggedAt         time.Time `json:"loggedAt"`
}

// CoinsRedeemed is emitted after a redemption commits.
type CoinsRedeemed struct {
	Type          string    `json:"type"`
	RedemptionID  string    `json:"redemptionId"`
	CollectorID   string    `json:"collectorId"`
	CoinsRedeemed int       `json:"coinsRedeemed"`
	Commodity     string    `json:"commodity"`
	ValidUntil    time.Time `json:"validUntil"`
	RedeemedAt    time.Time `json:"redeemedAt"`
}

// Producer writes ledger events to a Kafka topic. A disabled producer is a
// no-op, so callers never need to branch.
type Producer struct {
	writer *kafka.Writer
	logger zerolog.Logger
}

// NewProducer creates a Producer from config. Returns a no-op producer when
// the feed is disabled.
func NewProducer(cfg config.KafkaConfig, logger zerolog.Logger) *Producer {
	if !cfg.Enabled {
		return &Producer{logger: logger}
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
	return &Producer{writer: writer, logger: logger}
}

func (p *Producer) publish(key string, event interface{}) {
	if p.writer == nil {
		return
	}
	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to marshal ledger event")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: value}); err != nil {
		p.logger.Error().Err(err).Str("key", key).Msg("failed to publish ledger event")
	}
}

// PublishTransactionLogged publishes a transaction-logged event.
func (p *Producer) PublishTransactionLogged(event TransactionLogged) {
	event.Type = "transaction.logged"
	p.publish(event.CollectorID, event)
}

// PublishCoinsRedeemed publishes a coins-redeemed event.
func (p *Producer) PublishCoinsRedeemed(event CoinsRedeemed) {
	event.Type = "kcoins.redeemed"
	p.publish(event.CollectorID, event)
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
