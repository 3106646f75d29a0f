package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/event-checkin/internal/logging"
	"github.com/iliyamo/event-checkin/internal/metrics"
	"github.com/iliyamo/event-checkin/internal/model"
	"github.com/iliyamo/event-checkin/internal/queue"
)

// defaultDialTimeout bounds connection setup when the caller's context has no
// deadline.
const defaultDialTimeout = 2 * time.Second

// EventPublisher publishes check-in events to RabbitMQ.  Each publish opens
// its own connection, bounded by the context deadline; errors are logged and
// returned so callers can ignore them without interrupting the request.
type EventPublisher struct {
	URL string
	now func() time.Time
}

func NewEventPublisher(url string) *EventPublisher {
	return &EventPublisher{URL: url, now: time.Now}
}

// NewCheckInEvent builds the event for a settled record.
func NewCheckInEvent(action string, c *model.CheckIn, actorID uint64, at time.Time) queue.CheckInEvent {
	return queue.CheckInEvent{
		EventID:              uuid.NewString(),
		Action:               action,
		CheckInID:            c.ID,
		UserID:               c.UserID,
		Location:             c.Location,
		Swag:                 c.Swag,
		CredentialsRequested: c.CredentialsRequested,
		ActorID:              actorID,
		OccurredAt:           at.UTC().Format(time.RFC3339),
	}
}

// PublishCheckIn sends the event to the checkin.recorded queue as a
// persistent message.
func (p *EventPublisher) PublishCheckIn(ctx context.Context, event queue.CheckInEvent) error {
	log := logging.With("rabbitmq")
	err := p.publish(ctx, event)
	if err != nil {
		metrics.EventsPublished.WithLabelValues("error").Inc()
		log.Error().Err(err).Str("event_id", event.EventID).Msg("publish check-in event failed")
		return err
	}
	metrics.EventsPublished.WithLabelValues("ok").Inc()
	return nil
}

func (p *EventPublisher) publish(ctx context.Context, event queue.CheckInEvent) error {
	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(dialTimeout(ctx)),
	})
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queue.CheckInQueue, true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(ctx,
		"",                 // default exchange
		queue.CheckInQueue, // routing key = queue name
		false,              // mandatory
		false,              // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.EventID,
			Timestamp:    p.now().UTC(),
			Body:         body,
		})
}

// dialTimeout derives the AMQP dial and handshake timeout from ctx.
func dialTimeout(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return defaultDialTimeout
	}
	if d := time.Until(deadline); d > 0 {
		return d
	}
	return time.Millisecond
}
