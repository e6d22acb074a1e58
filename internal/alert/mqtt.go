package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
)

// Payload is the JSON body published for one alert.
type Payload struct {
	City    string    `json:"city"`
	Kind    string    `json:"kind"`
	Time    string    `json:"time"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Topic returns the per-city topic under prefix, e.g. "imsakiye/alerts/istanbul".
func Topic(prefix, city string) string {
	slug := strings.ToLower(strings.Join(strings.Fields(city), "-"))
	return strings.TrimSuffix(prefix, "/") + "/" + slug
}

// Encode builds the MQTT payload for a.
func Encode(a Alert, at time.Time) ([]byte, error) {
	return json.Marshal(Payload{
		City:    a.City,
		Kind:    a.Kind.String(),
		Time:    a.Clock.String(),
		Message: a.Message(),
		At:      at,
	})
}

// MQTTPublisher pushes alerts to a broker, one retained-off QoS 1 message per
// alert.
type MQTTPublisher struct {
	client mqtt.Client
	prefix string
	log    zerolog.Logger
}

// NewMQTTPublisher connects to broker (e.g. "tcp://localhost:1883").
func NewMQTTPublisher(broker, clientID, prefix string, log zerolog.Logger) (*MQTTPublisher, error) {
	l := log.With().Str("component", "mqtt").Logger()

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(10 * time.Second)
	opts.OnConnect = func(mqtt.Client) {
		l.Info().Str("broker", broker).Msg("connected to MQTT broker")
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		l.Warn().Err(err).Msg("MQTT connection lost")
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return &MQTTPublisher{client: client, prefix: prefix, log: l}, nil
}

// Publish sends every alert and returns the first error.
func (p *MQTTPublisher) Publish(ctx context.Context, alerts []Alert) error {
	now := time.Now()
	for _, a := range alerts {
		body, err := Encode(a, now)
		if err != nil {
			return fmt.Errorf("failed to encode alert for %s: %w", a.City, err)
		}

		topic := Topic(p.prefix, a.City)
		token := p.client.Publish(topic, 1, false, body)
		select {
		case <-token.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
		if err := token.Error(); err != nil {
			return fmt.Errorf("failed to publish alert to %s: %w", topic, err)
		}
		p.log.Debug().Str("topic", topic).Str("city", a.City).Msg("alert published")
	}
	return nil
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
