package queue

import (
	"context"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type HandlerFunc func(ctx context.Context, body []byte) error

// ConsumeWithRetry runs handler for each delivery; failed messages are
// requeued up to maxRetries times, then dead-lettered via Nack.
func (c *Client) ConsumeWithRetry(ctx context.Context, queue string, handler HandlerFunc, maxRetries int, retryDelay time.Duration) error {
	msgs, err := c.ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("consumer channel closed")
			}
			if err := handler(ctx, msg.Body); err == nil {
				_ = msg.Ack(false)
				continue
			}

			retryCount := getRetryCount(msg.Headers)
			if retryCount >= maxRetries {
				_ = msg.Nack(false, false)
				continue
			}

			headers := msg.Headers
			if headers == nil {
				headers = amqp.Table{}
			}
			headers["x-retry-count"] = retryCount + 1

			time.Sleep(retryDelay)
			_ = c.ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
				ContentType: msg.ContentType,
				Body:        msg.Body,
				Headers:     headers,
				Timestamp:   time.Now(),
			})
			_ = msg.Ack(false)
		}
	}
}

func getRetryCount(headers amqp.Table) int {
	if headers == nil {
		return 0
	}
	if v, ok := headers["x-retry-count"]; ok {
		switch t := v.(type) {
		case int32:
			return int(t)
		case int64:
			return int(t)
		case int:
			return t
		}
	}
	return 0
}
