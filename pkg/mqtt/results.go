// Package mqtt announces completed estimates on an MQTT broker and lets
// clients follow them as they land.
//
// Every estimate is published once on <prefix>/<method>/<id>, so a watcher
// can follow all methods with <prefix>/# or a single one with
// <prefix>/<method>/+.
package mqtt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	DefTopic = "fastflow/estimates"

	defTimeout     = 30 * time.Second
	connectTimeout = 10 * time.Second
	maxReconnect   = time.Minute
	quiesceMillis  = 250
)

var (
	ErrEmptyAddress   = errors.New("empty MQTT broker address")
	ErrEmptyClientID  = errors.New("empty MQTT client ID")
	ErrMalformedTopic = errors.New("malformed estimate topic")

	errTimeout = errors.New("timed out waiting for broker")
)

// Config is parsed from the environment with a FASTFLOW_MQTT_ prefix.
type Config struct {
	Address  string        `env:"ADDRESS"`
	Username string        `env:"USERNAME"`
	Password string        `env:"PASSWORD"`
	QoS      uint8         `env:"QOS"      envDefault:"1"`
	Timeout  time.Duration `env:"TIMEOUT"  envDefault:"30s"`
	Topic    string        `env:"TOPIC"    envDefault:"fastflow/estimates"`
}

// Message is one estimate delivered to a watcher. Payload is the document
// exactly as the service encoded it.
type Message struct {
	Method  string
	ID      string
	Payload []byte
}

// Handler consumes a delivered estimate. A returned error is logged and
// the message is still acknowledged.
type Handler func(msg Message) error

type Client struct {
	client mqtt.Client
	cfg    Config
	logger *slog.Logger
}

// NewClient connects to cfg.Address as id. Empty Topic and Timeout fall
// back to DefTopic and 30s.
func NewClient(cfg Config, id string, logger *slog.Logger) (*Client, error) {
	if cfg.Address == "" {
		return nil, ErrEmptyAddress
	}
	if id == "" {
		return nil, ErrEmptyClientID
	}
	if cfg.Topic == "" {
		cfg.Topic = DefTopic
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defTimeout
	}
	cfg.Topic = strings.TrimSuffix(cfg.Topic, "/")

	logger = logger.With(slog.String("broker", cfg.Address), slog.String("client_id", id))

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Address).
		SetClientID(id).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetMaxReconnectInterval(maxReconnect).
		SetConnectTimeout(connectTimeout).
		SetOnConnectHandler(func(mqtt.Client) {
			logger.Info("connected to MQTT broker")
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			logger.Warn("lost MQTT broker connection", slog.Any("error", err))
		}).
		SetReconnectingHandler(func(mqtt.Client, *mqtt.ClientOptions) {
			logger.Info("reconnecting to MQTT broker")
		})

	client := mqtt.NewClient(opts)
	if err := wait(context.Background(), client.Connect(), cfg.Timeout); err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", cfg.Address, err)
	}

	return &Client{client: client, cfg: cfg, logger: logger}, nil
}

// Publish sends an encoded estimate to its method and ID topic.
func (c *Client) Publish(ctx context.Context, method, id string, payload []byte) error {
	topic, err := EstimateTopic(c.cfg.Topic, method, id)
	if err != nil {
		return err
	}

	if err := wait(ctx, c.client.Publish(topic, c.cfg.QoS, false, payload), c.cfg.Timeout); err != nil {
		return fmt.Errorf("failed to publish estimate %s: %w", id, err)
	}

	return nil
}

// Watch hands every estimate of method (all methods when empty) to h until
// ctx is done, then unsubscribes.
func (c *Client) Watch(ctx context.Context, method string, h Handler) error {
	filter, err := FilterTopic(c.cfg.Topic, method)
	if err != nil {
		return err
	}

	if err := wait(ctx, c.client.Subscribe(filter, c.cfg.QoS, c.deliver(h)), c.cfg.Timeout); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", filter, err)
	}
	c.logger.Debug("watching estimates", slog.String("filter", filter))

	<-ctx.Done()

	if err := wait(context.WithoutCancel(ctx), c.client.Unsubscribe(filter), c.cfg.Timeout); err != nil {
		return fmt.Errorf("failed to unsubscribe from %s: %w", filter, err)
	}

	return nil
}

// Close waits briefly for in-flight work and disconnects.
func (c *Client) Close() {
	c.client.Disconnect(quiesceMillis)
}

func (c *Client) deliver(h Handler) mqtt.MessageHandler {
	return func(_ mqtt.Client, m mqtt.Message) {
		defer m.Ack()

		method, id, err := ParseTopic(c.cfg.Topic, m.Topic())
		if err != nil {
			c.logger.Warn("dropping message", slog.String("topic", m.Topic()), slog.Any("error", err))

			return
		}

		if err := h(Message{Method: method, ID: id, Payload: m.Payload()}); err != nil {
			c.logger.Warn("failed to handle estimate",
				slog.String("method", method),
				slog.String("id", id),
				slog.Any("error", err),
			)
		}
	}
}

// EstimateTopic is the topic a single estimate is published on.
func EstimateTopic(prefix, method, id string) (string, error) {
	if err := checkSegment(method); err != nil {
		return "", err
	}
	if err := checkSegment(id); err != nil {
		return "", err
	}

	return prefix + "/" + method + "/" + id, nil
}

// FilterTopic is the subscription filter for method, or for every method
// when method is empty.
func FilterTopic(prefix, method string) (string, error) {
	if method == "" {
		return prefix + "/#", nil
	}
	if err := checkSegment(method); err != nil {
		return "", err
	}

	return prefix + "/" + method + "/+", nil
}

// ParseTopic splits a topic built by EstimateTopic back into method and ID.
func ParseTopic(prefix, topic string) (method, id string, err error) {
	rest, ok := strings.CutPrefix(topic, prefix+"/")
	if !ok {
		return "", "", fmt.Errorf("%w: %q is outside %q", ErrMalformedTopic, topic, prefix)
	}

	method, id, ok = strings.Cut(rest, "/")
	if !ok || method == "" || id == "" || strings.Contains(id, "/") {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedTopic, topic)
	}

	return method, id, nil
}

func checkSegment(s string) error {
	if s == "" || strings.ContainsAny(s, "/+#") {
		return fmt.Errorf("%w: invalid segment %q", ErrMalformedTopic, s)
	}

	return nil
}

// wait blocks until the token completes, ctx ends or timeout elapses.
func wait(ctx context.Context, token mqtt.Token, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return errTimeout
	}
}
