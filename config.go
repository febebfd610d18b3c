package fastflow

import (
	"fmt"
	"os"
	"time"

	"github.com/absmach/fastflow/pkg/mqtt"
	"github.com/pelletier/go-toml"
)

const (
	DefServerURL  = "http://localhost:9090"
	DefMQTTBroker = "tcp://localhost:1883"

	defMQTTTimeout = 30 * time.Second
)

type Config struct {
	Server ServerConfig `toml:"server"`
	MQTT   MQTTConfig   `toml:"mqtt"`
}

type ServerConfig struct {
	URL             string `toml:"url"`
	TLSVerification bool   `toml:"tls_verification"`
}

type MQTTConfig struct {
	Address  string `toml:"address"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	QoS      uint8  `toml:"qos"`
	Timeout  string `toml:"timeout"`
	Topic    string `toml:"topic"`
}

// TimeoutDuration parses Timeout, falling back to 30s when it is empty.
func (c MQTTConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return defMQTTTimeout, nil
	}

	return time.ParseDuration(c.Timeout)
}

// DefaultConfig is used when no config file is present.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{URL: DefServerURL},
		MQTT: MQTTConfig{
			Address: DefMQTTBroker,
			QoS:     1,
			Timeout: defMQTTTimeout.String(),
			Topic:   mqtt.DefTopic,
		},
	}
}

// LoadConfig reads a TOML file and fills unset fields from DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	tree, err := toml.Load(string(data))
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := tree.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}
