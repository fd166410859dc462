package service

import (
    "context"
    "encoding/json"
    "net"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"

    "github.com/iliyamo/coursehub/internal/queue"
)

// AMQPPublisher publishes payment events to RabbitMQ.  Each publish opens
// its own connection; payments are rare enough that pooling is not worth
// the reconnect handling.
type AMQPPublisher struct {
    URL string
    Log *zap.Logger
}

// PublishPaymentRecorded sends ev to the durable payment.recorded queue as a
// persistent message.  Errors are logged and returned so the caller can
// choose to ignore them.
func (p *AMQPPublisher) PublishPaymentRecorded(ctx context.Context, ev queue.PaymentRecordedEvent) error {
    conn, err := amqp.DialConfig(p.URL, amqp.Config{
        Heartbeat: 10 * time.Second,
        Locale:    "en_US",
        Dial:      dialContext(ctx),
    })
    if err != nil {
        p.Log.Warn("rabbitmq: dial failed", zap.Error(err))
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        p.Log.Warn("rabbitmq: channel open failed", zap.Error(err))
        return err
    }
    defer func() { _ = ch.Close() }()

    // Idempotent; durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(queue.PaymentQueueName, true, false, false, false, nil); err != nil {
        p.Log.Warn("rabbitmq: queue declare failed", zap.Error(err))
        return err
    }

    body, err := json.Marshal(ev)
    if err != nil {
        return err
    }
    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", queue.PaymentQueueName, false, false, pub); err != nil {
        p.Log.Warn("rabbitmq: publish failed", zap.Error(err))
        return err
    }
    return nil
}

// dialContext bounds the TCP connect and the AMQP handshake by ctx.  The
// handshake deadline is cleared by amqp once the connection is open.
func dialContext(ctx context.Context) func(network, addr string) (net.Conn, error) {
    return func(network, addr string) (net.Conn, error) {
        var d net.Dialer
        conn, err := d.DialContext(ctx, network, addr)
        if err != nil {
            return nil, err
        }
        if dl, ok := ctx.Deadline(); ok {
            if err := conn.SetDeadline(dl); err != nil {
                _ = conn.Close()
                return nil, err
            }
        }
        return conn, nil
    }
}
