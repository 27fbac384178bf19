package sink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"gnss-monitor/internal/fix"
)

type MQTTConfig struct {
	Broker   string // e.g. tcp://localhost:1883
	ClientID string
	Username string
	Password string
	Topic    string
	QoS      byte
	Retained bool
	// Timeout bounds connect and each publish.
	Timeout time.Duration
}

// mqttClient is the part of mqtt.Client used for publishing.
type mqttClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTT publishes each result as a JSON fix.Snapshot.
type MQTT struct {
	client   mqttClient
	topic    string
	qos      byte
	retained bool
	timeout  time.Duration
}

// NewMQTT connects to the broker. The client reconnects on its own after a
// lost connection; publishes fail until it is back.
func NewMQTT(cfg MQTTConfig, log zerolog.Logger) (*MQTT, error) {
	if cfg.Broker == "" || cfg.Topic == "" {
		return nil, errors.New("mqtt: broker and topic are required")
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "gnss-monitor"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(cfg.Timeout).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Warn().Err(err).Str("broker", cfg.Broker).Msg("mqtt connection lost")
		}).
		SetOnConnectHandler(func(mqtt.Client) {
			log.Info().Str("broker", cfg.Broker).Msg("mqtt connected")
		})
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	tok := client.Connect()
	if !tok.WaitTimeout(cfg.Timeout) {
		return nil, fmt.Errorf("mqtt: connect %s: timeout", cfg.Broker)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("mqtt: connect %s: %w", cfg.Broker, err)
	}
	return newMQTT(client, cfg), nil
}

func newMQTT(client mqttClient, cfg MQTTConfig) *MQTT {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &MQTT{
		client:   client,
		topic:    cfg.Topic,
		qos:      cfg.QoS,
		retained: cfg.Retained,
		timeout:  cfg.Timeout,
	}
}

func (m *MQTT) Name() string { return "mqtt" }

func (m *MQTT) Publish(ctx context.Context, r fix.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(r.Snapshot())
	if err != nil {
		return fmt.Errorf("mqtt: marshal: %w", err)
	}
	tok := m.client.Publish(m.topic, m.qos, m.retained, payload)
	if !tok.WaitTimeout(m.timeout) {
		return fmt.Errorf("mqtt: publish %s: timeout", m.topic)
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt: publish %s: %w", m.topic, err)
	}
	return nil
}

func (m *MQTT) Close() error {
	m.client.Disconnect(250)
	return nil
}
