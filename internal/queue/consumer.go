package queue

import (
    "context"
    "errors"
    "fmt"
    "log/slog"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// HandlerFunc processes one message body.  Returning an error wrapping
// ErrMalformed drops the message; any other error puts it back on the
// queue.
type HandlerFunc func(ctx context.Context, body []byte) error

// ErrMalformed marks messages that will never succeed; they are dropped
// instead of requeued.
var ErrMalformed = errors.New("malformed message")

// Consumer reads a set of queues over one broker connection and hands each
// delivery to the handler registered for its queue.
type Consumer struct {
    url      string
    prefetch int
    log      *slog.Logger
    queues   []string
    handlers map[string]HandlerFunc
}

// NewConsumer builds a consumer with no queues.  prefetch <= 0 means 50.
func NewConsumer(url string, prefetch int, log *slog.Logger) *Consumer {
    if prefetch <= 0 {
        prefetch = 50
    }
    if log == nil {
        log = slog.Default()
    }
    return &Consumer{url: url, prefetch: prefetch, log: log, handlers: make(map[string]HandlerFunc)}
}

// Handle registers fn for queueName, replacing an earlier registration.
// It must be called before Run.
func (c *Consumer) Handle(queueName string, fn HandlerFunc) {
    if _, ok := c.handlers[queueName]; !ok {
        c.queues = append(c.queues, queueName)
    }
    c.handlers[queueName] = fn
}

// Queues returns the registered queue names in registration order.
func (c *Consumer) Queues() []string {
    return append([]string(nil), c.queues...)
}

// Run connects to the broker and consumes until ctx is cancelled.  Lost
// connections are retried with exponential backoff capped at 30 seconds.
// The returned error is always ctx.Err().
func (c *Consumer) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        if err := ctx.Err(); err != nil {
            return err
        }
        conn, err := amqp.Dial(c.url)
        if err != nil {
            c.log.Warn("consumer: dial failed", "error", err, "retry_in", backoff)
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = c.consumeLoop(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        c.log.Warn("consumer: consume loop ended, reconnecting", "error", err)
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

// consumeLoop drains every registered queue on one channel and returns as
// soon as any of them stops.
func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(c.prefetch, 0, false); err != nil {
        c.log.Warn("consumer: set QoS failed", "error", err)
    }

    loopCtx, cancel := context.WithCancel(ctx)
    defer cancel()
    done := make(chan error, len(c.queues))
    for _, name := range c.queues {
        if err := declare(ch, name); err != nil {
            return err
        }
        msgs, err := ch.Consume(name, "", false, false, false, false, nil)
        if err != nil {
            return fmt.Errorf("queue consume %s: %w", name, err)
        }
        c.log.Info("consumer: consuming", "queue", name)
        name := name
        go func() {
            done <- c.drain(loopCtx, name, msgs)
        }()
    }
    if len(c.queues) == 0 {
        <-ctx.Done()
        return ctx.Err()
    }
    return <-done
}

func (c *Consumer) drain(ctx context.Context, name string, msgs <-chan amqp.Delivery) error {
    handle := c.handlers[name]
    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return fmt.Errorf("deliveries channel closed for %s", name)
            }
            err := handle(ctx, d.Body)
            switch {
            case err == nil:
                _ = d.Ack(false)
            case errors.Is(err, ErrMalformed):
                c.log.Warn("consumer: dropping message", "queue", name, "error", err)
                _ = d.Nack(false, false)
            default:
                // Store failures are transient; put the message back.
                c.log.Error("consumer: handler failed", "queue", name, "error", err)
                _ = d.Nack(false, true)
                if !sleep(ctx, time.Second) {
                    return ctx.Err()
                }
            }
        }
    }
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}
