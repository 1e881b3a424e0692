package repository

import (
	"context"

	"RiskLens/internal/domain/models"
	"RiskLens/internal/domain/repository"
	pkgkafka "RiskLens/pkg/kafka"
)

// Publisher is the part of *pkgkafka.Producer alerts need.
type Publisher interface {
	PublishBatch(ctx context.Context, topic string, messages []pkgkafka.Message) error
	Close() error
}

// KafkaAlertPublisher writes each alert as one JSON message keyed by
// entity id, so alerts for one entity stay ordered.
type KafkaAlertPublisher struct {
	producer Publisher
	topic    string
}

var _ repository.AlertPublisher = (*KafkaAlertPublisher)(nil)

func NewKafkaAlertPublisher(producer Publisher, topic string) *KafkaAlertPublisher {
	return &KafkaAlertPublisher{producer: producer, topic: topic}
}

func (p *KafkaAlertPublisher) PublishAlerts(ctx context.Context, alerts []models.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(alerts))
	for i, a := range alerts {
		msgs[i] = pkgkafka.Message{Key: []byte(a.EntityID), Value: a}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaAlertPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
