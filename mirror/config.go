package mirror

import (
	"fmt"
	"time"

	"github.com/arloliu/crewsched/internal/kvutil"
	"github.com/arloliu/crewsched/types"
)

// Config configures the KV mirror.
type Config struct {
	// Bucket is the JetStream KV bucket name.
	//
	// Default: "crew-schedule"
	Bucket string `yaml:"bucket"`

	// KeyPrefix is the first token of every key ("<prefix>.<crew>.<day>").
	//
	// Default: "schedule"
	KeyPrefix string `yaml:"keyPrefix"`

	// OperationTimeout bounds each KV call.
	//
	// Default: 2s
	OperationTimeout time.Duration `yaml:"operationTimeout"`

	// Replicas is the bucket replication factor, used only when the bucket is created.
	//
	// Default: 1
	Replicas int `yaml:"replicas"`
}

// DefaultConfig returns the mirror defaults.
func DefaultConfig() Config {
	return Config{
		Bucket:           "crew-schedule",
		KeyPrefix:        "schedule",
		OperationTimeout: 2 * time.Second,
		Replicas:         1,
	}
}

// SetDefaults fills zero fields with default values.
func (c *Config) SetDefaults() {
	defaults := DefaultConfig()

	if c.Bucket == "" {
		c.Bucket = defaults.Bucket
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = defaults.KeyPrefix
	}
	if c.OperationTimeout == 0 {
		c.OperationTimeout = defaults.OperationTimeout
	}
	if c.Replicas == 0 {
		c.Replicas = defaults.Replicas
	}
}

// Validate checks the configuration after defaults are applied.
func (c *Config) Validate() error {
	if !kvutil.ValidKeyToken(c.KeyPrefix) {
		return fmt.Errorf("%w: mirror keyPrefix %q must be a single KV key token", types.ErrInvalidConfig, c.KeyPrefix)
	}
	if !kvutil.ValidKeyToken(c.Bucket) {
		return fmt.Errorf("%w: mirror bucket %q is not a valid bucket name", types.ErrInvalidConfig, c.Bucket)
	}
	if c.OperationTimeout < 0 {
		return fmt.Errorf("%w: mirror operationTimeout must be positive, got %v", types.ErrInvalidConfig, c.OperationTimeout)
	}
	if c.Replicas < 1 || c.Replicas > 5 {
		return fmt.Errorf("%w: mirror replicas must be between 1 and 5, got %d", types.ErrInvalidConfig, c.Replicas)
	}

	return nil
}
