package events

import (
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"github.com/chrisdamba/foodswipe/internal/logging"
	"github.com/chrisdamba/foodswipe/internal/models"
)

type KafkaOutput struct {
	producer sarama.SyncProducer
}

// NewSaramaConfig returns the producer settings used for analytics topics.
func NewSaramaConfig(cfg *models.Config) *sarama.Config {
	saramaConfig := sarama.NewConfig()
	saramaConfig.ClientID = "foodswipe"
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true // required by SyncProducer
	saramaConfig.Net.DialTimeout = 30 * time.Second
	saramaConfig.Net.ReadTimeout = 30 * time.Second
	saramaConfig.Net.WriteTimeout = 30 * time.Second

	if cfg.SessionTimeoutMs > 0 {
		saramaConfig.Consumer.Group.Session.Timeout = time.Duration(cfg.SessionTimeoutMs) * time.Millisecond
	} else {
		saramaConfig.Consumer.Group.Session.Timeout = 45 * time.Second
	}
	return saramaConfig
}

func NewKafkaOutput(cfg *models.Config) (*KafkaOutput, error) {
	brokerList := strings.Split(cfg.KafkaBrokerList, ",")
	for i := range brokerList {
		brokerList[i] = strings.TrimSpace(brokerList[i])
	}

	producer, err := sarama.NewSyncProducer(brokerList, NewSaramaConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create Sarama producer: %w", err)
	}

	log := logging.With("kafka")
	log.Info().Strs("brokers", brokerList).Msg("Sarama producer created")
	return NewKafkaOutputWithProducer(producer), nil
}

func NewKafkaOutputWithProducer(producer sarama.SyncProducer) *KafkaOutput {
	return &KafkaOutput{producer: producer}
}

// WriteMessage keys each message by session so a session's events stay in
// one partition and keep their order.
func (k *KafkaOutput) WriteMessage(topic string, msg []byte) error {
	if k.producer == nil {
		return fmt.Errorf("Sarama producer is not initialized")
	}

	pm := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(msg),
	}
	if e, err := decodeEvent(msg); err == nil && e.SessionID != "" {
		pm.Key = sarama.StringEncoder(e.SessionID)
	}

	if _, _, err := k.producer.SendMessage(pm); err != nil {
		return fmt.Errorf("failed to send message to topic %s: %w", topic, err)
	}
	return nil
}

func (k *KafkaOutput) Close() error {
	if k.producer == nil {
		return nil
	}
	err := k.producer.Close()
	k.producer = nil
	return err
}
