package mqtt

import (
	"fmt"
	"time"

	"rainpath-cases/common/config"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// Client wraps a paho client with the broker settings it was built from.
type Client struct {
	client mqtt.Client
	config *config.MQTTConfig
}

// NewClient connects to the broker. The client id gets a random suffix: a broker drops the
// older session when two clients connect with the same id.
func NewClient(cfg *config.MQTTConfig) (*Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(ClientID(cfg.ClientID))

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetConnectTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)

	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return &Client{
		client: client,
		config: cfg,
	}, nil
}

// ClientID base-<8 hex chars>.
func ClientID(base string) string {
	suffix := uuid.NewString()[:8]
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

// QoS configured for this client.
func (c *Client) QoS() byte {
	return c.config.QoS
}

// Publish blocks until the broker acknowledges (per QoS) or the token fails.
func (c *Client) Publish(topic string, qos byte, retained bool, payload []byte) error {
	token := c.client.Publish(topic, qos, retained, payload)
	token.Wait()

	if token.Error() != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, token.Error())
	}

	return nil
}

// Disconnect waits up to 250ms for in-flight work.
func (c *Client) Disconnect() {
	c.client.Disconnect(250)
}

// IsConnected reports the connection state.
func (c *Client) IsConnected() bool {
	return c.client.IsConnected()
}
