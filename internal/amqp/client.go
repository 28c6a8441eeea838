// Package amqp is the boundary to the chat transport and to the export
// pipeline. Inbound user events arrive on one queue, outbound message
// descriptors leave on another, and committed transactions are announced on a
// third for the export worker. Whatever renders keyboards and talks to the
// actual chat network lives on the far side of these queues.
package amqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	eventsQueue  string
	repliesQueue string
	exportQueue  string
}

func NewClient(url, exchangeName, eventsQueue, repliesQueue, exportQueue string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		eventsQueue:  eventsQueue,
		repliesQueue: repliesQueue,
		exportQueue:  exportQueue,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queues: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	for _, queue := range []string{c.eventsQueue, c.repliesQueue, c.exportQueue} {
		_, err = c.channel.QueueDeclare(
			queue, // name
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", queue, err)
		}

		// Routing key matches the queue name on the direct exchange
		if err := c.channel.QueueBind(queue, queue, c.exchangeName, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", queue, err)
		}
	}

	return nil
}

func (c *Client) publish(ctx context.Context, routingKey string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

// PublishReply sends an outbound message descriptor to the transport.
func (c *Client) PublishReply(ctx context.Context, msg *ReplyMessage) error {
	msg.Timestamp = time.Now()
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal reply: %w", err)
	}
	if err := c.publish(ctx, c.repliesQueue, body); err != nil {
		return fmt.Errorf("publish reply: %w", err)
	}

	slog.DebugContext(ctx, "Published reply", "user_id", msg.UserID, "queue", c.repliesQueue)
	return nil
}

// PublishTransactionRecorded announces a committed transaction for export.
func (c *Client) PublishTransactionRecorded(ctx context.Context, id int64) error {
	body, err := NewTransactionRecordedMessage(id).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := c.publish(ctx, c.exportQueue, body); err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	slog.InfoContext(ctx, "Published transaction recorded message",
		"id", id,
		"exchange", c.exchangeName,
		"queue", c.exportQueue)
	return nil
}

// ConsumeUserEvents delivers inbound user events to the handler until ctx is
// done. A handler error nacks the delivery without requeue: replaying a
// dialogue event out of order would do more harm than dropping it.
func (c *Client) ConsumeUserEvents(ctx context.Context, handler func(context.Context, *UserEventMessage) error) error {
	return c.consume(ctx, c.eventsQueue, func(body []byte) error {
		msg, err := UserEventMessageFromJSON(body)
		if err != nil {
			return fmt.Errorf("%w: decode user event: %v", errBadMessage, err)
		}
		if err := handler(ctx, msg); err != nil {
			return fmt.Errorf("%w: %v", errBadMessage, err)
		}
		return nil
	})
}

// ConsumeTransactionRecorded delivers export announcements to the handler.
// Handler failures requeue the message so the export can be retried.
func (c *Client) ConsumeTransactionRecorded(ctx context.Context, handler func(context.Context, *TransactionRecordedMessage) error) error {
	return c.consume(ctx, c.exportQueue, func(body []byte) error {
		msg, err := TransactionRecordedMessageFromJSON(body)
		if err != nil {
			return fmt.Errorf("%w: decode export message: %v", errBadMessage, err)
		}
		if err := handler(ctx, msg); err != nil {
			return fmt.Errorf("handle message: %w", err)
		}
		return nil
	})
}

// errBadMessage marks deliveries that must not be requeued.
var errBadMessage = errors.New("unprocessable message")

func (c *Client) consume(ctx context.Context, queue string, handle func([]byte) error) error {
	msgs, err := c.channel.Consume(
		queue, // queue
		"",    // consumer
		false, // auto-ack (we want manual ack)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("start consuming %s: %w", queue, err)
	}

	slog.InfoContext(ctx, "Started consuming", "queue", queue)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption", "queue", queue, "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed for %s", queue)
			}

			switch err := handle(delivery.Body); {
			case err == nil:
				delivery.Ack(false)
			case errors.Is(err, errBadMessage):
				slog.ErrorContext(ctx, "Dropping unprocessable message", "queue", queue, "error", err)
				delivery.Nack(false, false) // reject, no requeue
			default:
				slog.ErrorContext(ctx, "Failed to handle message", "queue", queue, "error", err)
				delivery.Nack(false, true) // reject and requeue
			}
		}
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
