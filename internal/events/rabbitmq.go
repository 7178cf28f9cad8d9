package events

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/Codelsoft-Microservices/codelsoft-users/internal/config"
)

const bufferSize = 128

var ErrBufferFull = errors.New("event buffer full")

type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQ publishes events to a durable topic exchange, routed by event
// type. Publish only enqueues; Run drains the queue onto the channel.
type RabbitMQ struct {
	cfg    config.RabbitMQConfig
	logger *zap.Logger
	conn   *amqp.Connection
	pubCh  amqpChannel
	in     chan Event
}

func NewRabbitMQ(cfg config.RabbitMQConfig, logger *zap.Logger) *RabbitMQ {
	return &RabbitMQ{
		cfg:    cfg,
		logger: logger,
		in:     make(chan Event, bufferSize),
	}
}

func (r *RabbitMQ) Connect(ctx context.Context) error {
	dialer := &net.Dialer{Timeout: 10 * time.Second}

	conn, err := amqp.DialConfig(r.cfg.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Properties: amqp.Table{
			"connection_name": "codelsoft-users",
		},
		Dial: func(network, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, network, addr)
		},
	})
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return err
	}

	r.conn = conn
	if err := r.attach(ch); err != nil {
		_ = conn.Close()
		return err
	}

	r.logger.Info("rabbitmq connected", zap.String("exchange", r.cfg.Exchange))
	return nil
}

func (r *RabbitMQ) attach(ch amqpChannel) error {
	if err := ch.ExchangeDeclare(r.cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return err
	}
	r.pubCh = ch
	return nil
}

func (r *RabbitMQ) Publish(_ context.Context, e Event) error {
	select {
	case r.in <- e:
		return nil
	default:
		return ErrBufferFull
	}
}

// Run publishes queued events until ctx is done.
func (r *RabbitMQ) Run(ctx context.Context) {
	r.logger.Info("event publisher started")
	defer r.logger.Info("event publisher stopped")

	for {
		select {
		case e := <-r.in:
			if err := r.publish(ctx, e); err != nil {
				r.logger.Error("publishing event",
					zap.String("type", e.Type),
					zap.String("event_id", e.ID),
					zap.Error(err),
				)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (r *RabbitMQ) publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return err
	}

	return r.pubCh.PublishWithContext(ctx, r.cfg.Exchange, e.Type, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    e.ID,
		Timestamp:    e.OccurredAt,
		Type:         e.Type,
		Body:         body,
	})
}

func (r *RabbitMQ) Close() error {
	var errs []error
	if r.pubCh != nil {
		errs = append(errs, r.pubCh.Close())
	}
	if r.conn != nil {
		errs = append(errs, r.conn.Close())
	}
	return errors.Join(errs...)
}
