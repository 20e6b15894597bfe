// Package publish announces finished screening runs on a message broker.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/jonathan/resume-screener/internal/types"
)

// DefaultExchange is the topic exchange screening summaries are sent to.
const DefaultExchange = "screening_results"

// Publisher announces a finished screening run.
type Publisher interface {
	Publish(ctx context.Context, result *types.ScreeningResult) error
}

// Candidate identifies the best-ranked resume of a run.
type Candidate struct {
	FileName string  `json:"fileName"`
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
}

// Summary is the message body published for each run.
type Summary struct {
	RunID   string     `json:"run_id"`
	Resumes int        `json:"resumes"`
	Top     *Candidate `json:"top,omitempty"`
}

// NewSummary condenses a screening result.
func NewSummary(result *types.ScreeningResult) Summary {
	s := Summary{RunID: result.RunID, Resumes: len(result.Resumes)}
	if top, ok := result.Top(); ok {
		s.Top = &Candidate{FileName: top.FileName, Name: top.Name, Score: top.Score}
	}
	return s
}

// channel is the part of *amqp.Channel the publisher needs.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQP publishes summaries to a RabbitMQ topic exchange with the routing key
// "screening.<run id>".
type AMQP struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
	logger   *zap.Logger
}

// DialAMQP connects to the broker and declares the exchange.
func DialAMQP(url, exchange string, logger *zap.Logger) (*AMQP, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("error connecting to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("error opening RabbitMQ channel: %w", err)
	}
	p, err := newAMQP(ch, exchange, logger)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func newAMQP(ch channel, exchange string, logger *zap.Logger) (*AMQP, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	err := ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return &AMQP{ch: ch, exchange: exchange, logger: logger}, nil
}

// Publish sends the run summary.
func (p *AMQP) Publish(ctx context.Context, result *types.ScreeningResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(NewSummary(result))
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	routingKey := "screening." + result.RunID
	err = p.ch.Publish(p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    result.RunID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish summary: %w", err)
	}
	p.logger.Info("published screening summary",
		zap.String("exchange", p.exchange),
		zap.String("routing_key", routingKey))
	return nil
}

// Close releases the channel and connection.
func (p *AMQP) Close() error {
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
