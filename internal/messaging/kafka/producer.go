package kafka

import (
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"
)

// Producer — синхронный издатель событий заказов.
// Идемпотентный продюсер с подтверждением от всех реплик: событие либо
// надёжно записано, либо вызов вернул ошибку.
type Producer struct {
	producer sarama.SyncProducer
	logger   *log.Entry
}

func NewProducer(brokers []string, logger *log.Logger) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	return &Producer{
		producer: producer,
		logger:   logger.WithField("component", "kafka_producer"),
	}, nil
}

// PublishOrderEvent сериализует событие в JSON и отправляет его в топик
// событий заказов. Ключ сообщения — идентификатор заказа, чтобы события
// одного заказа попадали в одну партицию и сохраняли порядок.
func (p *Producer) PublishOrderEvent(event OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: TopicOrderEvents,
		Key:   sarama.StringEncoder(event.OrderID),
		Value: sarama.ByteEncoder(payload),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("send order event: %w", err)
	}

	p.logger.WithFields(log.Fields{
		"event_type": event.EventType,
		"order_id":   event.OrderID,
		"partition":  partition,
		"offset":     offset,
	}).Debug("событие заказа опубликовано")

	return nil
}

func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("close kafka producer: %w", err)
	}
	return nil
}
