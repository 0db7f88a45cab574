package config

import (
	"fmt"
	"time"
)

const (
	// Server defaults
	DefaultServerPort  = 8080
	DefaultMetricsPath = "/metrics"

	// OTEL defaults
	DefaultOTELTransport    = "grpc"
	DefaultOTELHost         = "localhost"
	DefaultOTELPortGRPC     = 4317
	DefaultOTELPortHTTP     = 4318
	DefaultOTELPushInterval = 10 * time.Second
	DefaultServiceName      = "promwrap-demo"

	// Workload defaults
	DefaultWorkloadInterval = 1 * time.Second
)

// Config holds the complete demo application configuration.
type Config struct {
	Server   ServerConfig      `yaml:"server"`
	Labels   map[string]string `yaml:"labels,omitempty"`
	Workload *WorkloadConfig   `yaml:"workload,omitempty"`
	OTEL     *OTELConfig       `yaml:"otel,omitempty"`
}

// Validate applies defaults and validates the configuration.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if c.Workload != nil {
		if err := c.Workload.Validate(); err != nil {
			return err
		}
	}
	if c.OTEL != nil && c.OTEL.Enabled {
		if err := c.OTEL.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ServerConfig defines the demo HTTP server settings.
type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPath string `yaml:"metrics_path"`
}

// Validate applies defaults and validates server configuration.
func (c *ServerConfig) Validate() error {
	if c.Port == 0 {
		c.Port = DefaultServerPort
	}
	if c.MetricsPath == "" {
		c.MetricsPath = DefaultMetricsPath
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Port)
	}
	return nil
}

// WorkloadConfig defines simulated values feeding deferred gauges.
type WorkloadConfig struct {
	Interval time.Duration           `yaml:"interval"`
	Sources  map[string]SourceConfig `yaml:"sources"`
	Values   map[string]ValueConfig  `yaml:"values"`
}

// Validate applies defaults and validates workload configuration.
func (c *WorkloadConfig) Validate() error {
	if c.Interval == 0 {
		c.Interval = DefaultWorkloadInterval
	}
	for name, val := range c.Values {
		if val.Source == "" && val.CloneFrom == "" {
			return fmt.Errorf("value %q: either source or clone_from must be set", name)
		}
		if val.Source != "" {
			if _, ok := c.Sources[val.Source]; !ok {
				return fmt.Errorf("value %q: source %q not defined", name, val.Source)
			}
		}
	}
	return nil
}

// SourceConfig defines a simulated value source.
type SourceConfig struct {
	Type string `yaml:"type"`
	Min  int    `yaml:"min,omitempty"`
	Max  int    `yaml:"max,omitempty"`
}

// ValueConfig defines a named value derived from a source or another value.
type ValueConfig struct {
	Source     string   `yaml:"source,omitempty"`
	CloneFrom  string   `yaml:"clone_from,omitempty"`
	Transforms []string `yaml:"transforms,omitempty"`
	Wrap       string   `yaml:"wrap,omitempty"`
	ResetValue int      `yaml:"reset_value,omitempty"`
	Help       string   `yaml:"help,omitempty"`
}

// OTELConfig defines optional OTLP push settings.
type OTELConfig struct {
	Enabled   bool              `yaml:"enabled"`
	Transport string            `yaml:"transport,omitempty"`
	Host      string            `yaml:"host,omitempty"`
	Port      int               `yaml:"port,omitempty"`
	Interval  time.Duration     `yaml:"interval,omitempty"`
	Resource  map[string]string `yaml:"resource,omitempty"`
	Headers   map[string]string `yaml:"headers,omitempty"`
	Insecure  bool              `yaml:"insecure,omitempty"`
}

// Validate applies defaults and validates OTEL configuration.
func (c *OTELConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.Transport == "" {
		c.Transport = DefaultOTELTransport
	}
	if c.Transport != "grpc" && c.Transport != "http" {
		return fmt.Errorf("invalid transport: %s (must be grpc or http)", c.Transport)
	}

	if c.Host == "" {
		c.Host = DefaultOTELHost
	}
	if c.Port == 0 {
		if c.Transport == "grpc" {
			c.Port = DefaultOTELPortGRPC
		} else {
			c.Port = DefaultOTELPortHTTP
		}
	}
	if c.Interval == 0 {
		c.Interval = DefaultOTELPushInterval
	}

	if c.Resource == nil {
		c.Resource = make(map[string]string)
	}
	if _, exists := c.Resource["service.name"]; !exists {
		c.Resource["service.name"] = DefaultServiceName
	}

	return nil
}

// GetEndpoint returns the full collector address.
func (c *OTELConfig) GetEndpoint() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
