package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	kafka "github.com/segmentio/kafka-go"
)

// Publisher writes reservation lifecycle messages to Kafka. Callers
// treat publishing as best effort, a broker outage must never fail a
// reservation request.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	if len(brokers) == 0 {
		return nil
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			Async:        false,
		},
	}
}

// Publish marshals the message and writes it keyed by ticket number.
// Errors are logged and returned so callers can choose to ignore them.
func (p *Publisher) Publish(ctx context.Context, msg ReservationMessage) error {
	if p == nil {
		return nil
	}
	body, err := json.Marshal(msg)
	if err != nil {
		log.Printf("❌ Kafka: marshal message failed: %v", err)
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.TicketNumber),
		Value: body,
		Time:  time.Now().UTC(),
	})
	if err != nil {
		log.Printf("❌ Kafka: publish %s failed: %v", msg.Kind, err)
		return err
	}
	return nil
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}

// StartKafkaConsumer reads the reservation topic and delivers the
// lifecycle email for each message. It runs a reconnect loop with
// exponential backoff and returns only when ctx is cancelled.
func StartKafkaConsumer(ctx context.Context, brokers []string, topic string, svc Service) {
	if len(brokers) == 0 {
		log.Println("⚠️ Kafka consumer disabled: no brokers configured")
		return
	}

	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return
		}

		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  "eventia-notifications",
			MinBytes: 1,
			MaxBytes: 10e6,
		})

		err := consumeLoop(ctx, reader, svc)
		_ = reader.Close()
		if ctx.Err() != nil {
			return
		}

		log.Printf("⚠️ Kafka consumer stopped: %v; reconnecting in %s", err, backoff)
		time.Sleep(backoff)
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func consumeLoop(ctx context.Context, reader *kafka.Reader, svc Service) error {
	for {
		m, err := reader.ReadMessage(ctx)
		if err != nil {
			return fmt.Errorf("read message: %w", err)
		}
		var msg ReservationMessage
		if err := json.Unmarshal(m.Value, &msg); err != nil {
			log.Printf("⚠️ Kafka: skipping malformed message at offset %d: %v", m.Offset, err)
			continue
		}
		log.Printf("📨 %s | ticket=%s | event=%q | user=%s",
			msg.Kind, msg.TicketNumber, msg.EventTitle, msg.UserEmail)
		svc.DeliverFromQueue(ctx, msg)
	}
}
