package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// RuntimeConfig carries the process-wide tunables the driver reads at
// startup, bound from the environment independently of the memory-class
// map (which is always file-based). Kept as a separate source from Viper,
// so file config and envconfig-bound deploy settings don't collide.
type RuntimeConfig struct {
	Workers      int    `envconfig:"WORKERS" default:"5"`
	RSize        uint64 `envconfig:"R_SIZE" default:"134217728"` // 2^27
	SSize        uint64 `envconfig:"S_SIZE" default:"1024"`
	SegmentBytes int    `envconfig:"SEGMENT_BYTES" default:"4096"`
	Profile      string `envconfig:"PROFILE" default:"testing"`
	MetricsAddr  string `envconfig:"METRICS_ADDR" default:""`
}

// LoadRuntimeConfig loads a .env file (if present, ignored if absent) and
// binds RuntimeConfig from the environment under the NUMAQ_ prefix.
func LoadRuntimeConfig(envFile string) (RuntimeConfig, error) {
	if envFile != "" {
		_ = godotenv.Load(envFile) // missing .env is not an error
	}
	var rc RuntimeConfig
	if err := envconfig.Process("numaq", &rc); err != nil {
		return RuntimeConfig{}, err
	}
	return rc, nil
}
