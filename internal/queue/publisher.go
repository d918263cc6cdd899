package queue

import (
    "context"
    "encoding/json"
    "fmt"
    "log/slog"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends events to RabbitMQ.  A nil Publisher, or one built with
// an empty URL, is disabled: Publish is a no-op and Enabled reports false.
// Errors are logged and returned so callers may ignore them without
// interrupting the request.
type Publisher struct {
    url string
}

// NewPublisher returns a Publisher for url, or nil when url is empty.
func NewPublisher(url string) *Publisher {
    if url == "" {
        return nil
    }
    return &Publisher{url: url}
}

// Enabled reports whether events actually reach a broker.
func (p *Publisher) Enabled() bool {
    return p != nil && p.url != ""
}

// Publish marshals event as JSON and sends it as a persistent message to
// the durable queue named queueName.  A connection is opened per call;
// dashboard writes are infrequent.
func (p *Publisher) Publish(ctx context.Context, queueName string, event any) error {
    if !p.Enabled() {
        return nil
    }
    body, err := json.Marshal(event)
    if err != nil {
        return fmt.Errorf("marshal %s event: %w", queueName, err)
    }

    conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(5 * time.Second)})
    if err != nil {
        slog.WarnContext(ctx, "rabbitmq dial failed", "queue", queueName, "error", err)
        return fmt.Errorf("dial broker: %w", err)
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        slog.WarnContext(ctx, "rabbitmq channel open failed", "queue", queueName, "error", err)
        return fmt.Errorf("open channel: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := declare(ch, queueName); err != nil {
        slog.WarnContext(ctx, "rabbitmq queue declare failed", "queue", queueName, "error", err)
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
        slog.WarnContext(ctx, "rabbitmq publish failed", "queue", queueName, "error", err)
        return fmt.Errorf("publish %s: %w", queueName, err)
    }
    return nil
}

// declare makes sure the durable queue exists.  Declaring is idempotent.
func declare(ch *amqp.Channel, name string) error {
    if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare %s: %w", name, err)
    }
    return nil
}
