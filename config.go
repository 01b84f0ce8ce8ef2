package crewsched

import (
	"fmt"
	"os"
	"time"

	"github.com/arloliu/crewsched/mirror"
	"github.com/arloliu/crewsched/types"
	"gopkg.in/yaml.v3"
)

// SeedSchedule lists the initial cell values: crew ID -> weekday wire name -> project.
//
// Cells that are not listed start empty. A null or empty project leaves the cell empty.
type SeedSchedule map[string]map[string]types.ProjectID

// Config is the configuration for a Board.
//
// All duration fields accept standard Go duration strings like "700ms", "2s".
type Config struct {
	// ConflictWindow is how long a cell stays flagged after a drop overwrote
	// a different project.
	//
	// Default: 700ms
	ConflictWindow time.Duration `yaml:"conflictWindow"`

	// SubscriberBuffer is the channel capacity of each change subscription.
	// A subscriber that falls further behind misses events.
	//
	// Default: 16
	SubscriberBuffer int `yaml:"subscriberBuffer"`

	// Palette is the ordered set of projects that can be assigned.
	//
	// Default: DefaultPalette()
	Palette types.Palette `yaml:"palette"`

	// Seed is the initial schedule. Crews absent from the roster are skipped
	// with a warning at board construction.
	//
	// Default: DefaultSeed() when Palette is also defaulted, otherwise empty
	Seed SeedSchedule `yaml:"seed"`

	// Mirror configures the optional NATS KV mirror.
	Mirror mirror.Config `yaml:"mirror"`
}

// DefaultPalette returns the demo palette of four active projects.
func DefaultPalette() types.Palette {
	return types.Palette{
		{ID: "winkenbach", Label: "Winkenbach", Color: "#60A5FA"},
		{ID: "hope", Label: "Hope", Color: "#4ADE80"},
		{ID: "athanasakos", Label: "Athanasakos", Color: "#FB923C"},
		{ID: "okimoto", Label: "Okimoto", Color: "#C084FC"},
	}
}

// DefaultSeed returns the demo week for the roster in roster.Default.
func DefaultSeed() SeedSchedule {
	week := func(p types.ProjectID) map[string]types.ProjectID {
		return map[string]types.ProjectID{"mon": p, "tue": p, "wed": p, "thu": p, "fri": p}
	}

	foreman1 := week("hope")
	foreman1["fri"] = "athanasakos"

	return SeedSchedule{
		"concrete":  week("athanasakos"),
		"framing":   week("winkenbach"),
		"foreman1":  foreman1,
		"foreman2":  week("hope"),
		"landscape": week("okimoto"),
		"finish1":   week("winkenbach"),
		"finish2":   week("winkenbach"),
	}
}

// DefaultConfig returns a Config with sensible defaults.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		ConflictWindow:   700 * time.Millisecond,
		SubscriberBuffer: 16,
		Palette:          DefaultPalette(),
		Seed:             DefaultSeed(),
		Mirror:           mirror.DefaultConfig(),
	}
}

// SetDefaults fills in missing configuration values with defaults.
//
// The demo seed is only applied together with the demo palette, since a
// custom palette would not contain its projects.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.ConflictWindow == 0 {
		cfg.ConflictWindow = defaults.ConflictWindow
	}
	if cfg.SubscriberBuffer == 0 {
		cfg.SubscriberBuffer = defaults.SubscriberBuffer
	}
	if len(cfg.Palette) == 0 {
		cfg.Palette = defaults.Palette
		if cfg.Seed == nil {
			cfg.Seed = defaults.Seed
		}
	}
	cfg.Mirror.SetDefaults()
}

// Validate checks configuration constraints and returns error for invalid values.
//
// Hard Validation Rules:
//   - ConflictWindow > 0
//   - SubscriberBuffer >= 1
//   - Palette is non-empty with unique, non-empty IDs
//   - Every seed weekday is mon..fri and every seed project is in the palette
//   - Mirror settings are valid
//
// Returns:
//   - error: Validation error wrapping ErrInvalidConfig, nil if valid
func (cfg *Config) Validate() error {
	if cfg.ConflictWindow <= 0 {
		return fmt.Errorf("%w: conflictWindow must be > 0, got %v", types.ErrInvalidConfig, cfg.ConflictWindow)
	}

	if cfg.SubscriberBuffer < 1 {
		return fmt.Errorf("%w: subscriberBuffer must be >= 1, got %d", types.ErrInvalidConfig, cfg.SubscriberBuffer)
	}

	if len(cfg.Palette) == 0 {
		return fmt.Errorf("%w: palette must contain at least one project", types.ErrInvalidConfig)
	}
	seen := make(map[types.ProjectID]struct{}, len(cfg.Palette))
	for i, p := range cfg.Palette {
		if p.ID.IsNone() {
			return fmt.Errorf("%w: palette entry %d has empty id", types.ErrInvalidConfig, i)
		}
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("%w: palette id %q is listed twice", types.ErrInvalidConfig, p.ID)
		}
		seen[p.ID] = struct{}{}
	}

	for crewID, days := range cfg.Seed {
		for day, project := range days {
			if _, err := types.ParseWeekday(day); err != nil {
				return fmt.Errorf("%w: seed for %q: %w", types.ErrInvalidConfig, crewID, err)
			}
			if !project.IsNone() && !cfg.Palette.Contains(project) {
				return fmt.Errorf("%w: seed %s.%s: %w: %q", types.ErrInvalidConfig, crewID, day, types.ErrUnknownProject, project)
			}
		}
	}

	if err := cfg.Mirror.Validate(); err != nil {
		return err
	}

	return nil
}

// ValidateWithWarnings logs warnings for legal but unusual values.
//
// This is called after Validate() in NewBoard() to provide operator guidance.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	if cfg.ConflictWindow < 100*time.Millisecond {
		logger.Warn(
			"conflictWindow is too short to be noticed on screen",
			"conflictWindow", cfg.ConflictWindow,
			"recommended", "700ms",
		)
	}
	if cfg.ConflictWindow > 10*time.Second {
		logger.Warn(
			"conflictWindow is very long, conflict flags will linger",
			"conflictWindow", cfg.ConflictWindow,
			"recommended", "700ms",
		)
	}

	for _, p := range cfg.Palette {
		if p.Label == "" || p.Color == "" {
			logger.Warn("palette entry is missing display metadata", "project", string(p.ID))
		}
	}
}

// ParseConfig decodes a YAML document, applies defaults and validates the result.
//
// Parameters:
//   - data: YAML document
//
// Returns:
//   - *Config: Decoded configuration
//   - error: Parse or validation error
//
// Example:
//
//	cfg, err := crewsched.ParseConfig([]byte("conflictWindow: 1s\n"))
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	SetDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// TestConfig returns a configuration with a short conflict window for fast tests.
//
// Example:
//
//	cfg := crewsched.TestConfig()
//	board, err := crewsched.NewBoard(ctx, &cfg, roster.NewDefault())
func TestConfig() Config {
	cfg := DefaultConfig()
	cfg.ConflictWindow = 50 * time.Millisecond

	return cfg
}
