package worker

import (
	"context"
	"fmt"
	"log"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/PragyeNawani/soloistanjali-sub000/internal/events"
	"github.com/PragyeNawani/soloistanjali-sub000/internal/notifier"
)

// Config for the operator notification consumer.
type Config struct {
	RabbitURL  string
	Exchange   string
	Queue      string
	Bindings   []string
	Prefetch   int
	AdminEmail string
}

// Consumer turns ledger events into operator notifications. Handling is
// at-least-once: failed handles are nacked back onto the queue.
type Consumer struct {
	cfg Config
	n   notifier.Notifier

	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewConsumer(cfg Config, n notifier.Notifier) *Consumer {
	return &Consumer{cfg: cfg, n: n}
}

func (c *Consumer) Connect() error {
	conn, err := amqp.Dial(c.cfg.RabbitURL)
	if err != nil {
		return fmt.Errorf("rabbit dial failed: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel failed: %w", err)
	}

	if err := ch.ExchangeDeclare(c.cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare exchange %s failed: %w", c.cfg.Exchange, err)
	}
	q, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare queue failed: %w", err)
	}
	for _, key := range c.cfg.Bindings {
		if err := ch.QueueBind(q.Name, key, c.cfg.Exchange, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return fmt.Errorf("bind key=%s failed: %w", key, err)
		}
	}

	if c.cfg.Prefetch <= 0 {
		c.cfg.Prefetch = 8
	}
	if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("set qos failed: %w", err)
	}

	c.conn = conn
	c.ch = ch
	return nil
}

func (c *Consumer) Close() {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

func (c *Consumer) Run(ctx context.Context) error {
	msgs, err := c.ch.ConsumeWithContext(ctx, c.cfg.Queue, "lesson-notify", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume failed: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := c.handleDelivery(ctx, d); err != nil {
				log.Printf("[notify-worker] handle key=%s err=%v -> Nack&requeue", d.RoutingKey, err)
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handleDelivery(ctx context.Context, d amqp.Delivery) error {
	switch d.RoutingKey {
	case events.RKRegistrationCompleted:
		ev, err := events.Decode[events.RegistrationCompleted](d.Body)
		if err != nil {
			return err
		}
		return c.n.Send(ctx, c.cfg.AdminEmail, "Workshop seat sold", []notifier.Field{
			{Label: "Registration", Value: ev.RegistrationID},
			{Label: "Workshop", Value: ev.WorkshopID},
			{Label: "User", Value: ev.UserID},
			{Label: "Amount", Value: fmt.Sprintf("INR %d.%02d", ev.AmountMinor/100, ev.AmountMinor%100)},
		})

	case events.RKPurchaseCompleted:
		ev, err := events.Decode[events.PurchaseCompleted](d.Body)
		if err != nil {
			return err
		}
		return c.n.Send(ctx, c.cfg.AdminEmail, "Course sold", []notifier.Field{
			{Label: "Purchase", Value: ev.PurchaseID},
			{Label: "Course", Value: ev.CourseID},
			{Label: "User", Value: ev.UserID},
			{Label: "Amount", Value: fmt.Sprintf("INR %d.%02d", ev.AmountMinor/100, ev.AmountMinor%100)},
		})

	case events.RKWorkshopUpdated:
		ev, err := events.Decode[events.WorkshopUpdated](d.Body)
		if err != nil {
			return err
		}
		return c.n.Send(ctx, c.cfg.AdminEmail, "Workshop updated", []notifier.Field{
			{Label: "Workshop", Value: ev.WorkshopID},
			{Label: "Changed", Value: strings.Join(ev.Changed, ", ")},
		})

	default:
		log.Printf("[notify-worker] skip unknown key=%s", d.RoutingKey)
	}
	return nil
}
