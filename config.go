package ebcot

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config mirrors the core's configuration keys, read once at startup and
// treated as immutable thereafter. The dotted key names match the
// jpeg2000.* and accelerate.* sections directly.
type Config struct {
	// D is the default DWT decomposition depth.
	D int
	// G is the guard-bit count used in the K_max derivation.
	G int
	// Eb is the exponent parsed from the QCD quantization default
	// marker for the subband being coded.
	Eb int
	// Accelerated gates whether batch dispatch uses a worker pool.
	Accelerated bool
	// MinTaskNumber is the minimum tile count before pooled dispatch
	// kicks in.
	MinTaskNumber int
	// MaxPoolSize caps the worker pool width.
	MaxPoolSize int
}

// DefaultConfig returns the codec's built-in defaults, matching the
// teacher's option-struct-with-defaults convention.
func DefaultConfig() Config {
	return Config{
		D:             5,
		G:             2,
		Eb:            8,
		Accelerated:   false,
		MinTaskNumber: 4,
		MaxPoolSize:   8,
	}
}

// KMax derives the maximum bitplane count bound: max(0, G + Eb - 1).
func (c Config) KMax() int {
	k := c.G + c.Eb - 1
	if k < 0 {
		return 0
	}
	return k
}

// LoadConfig reads a Config from an optional config file plus
// environment overrides (EBCOT_JPEG2000_D, EBCOT_ACCELERATE_..., etc.),
// layered on top of DefaultConfig. path may be empty, in which case only
// the environment and defaults apply.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetEnvPrefix("EBCOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("jpeg2000.d", cfg.D)
	v.SetDefault("jpeg2000.g", cfg.G)
	v.SetDefault("jpeg2000.qcd", cfg.Eb)
	v.SetDefault("accelerate.codec_min_task_number", cfg.MinTaskNumber)
	v.SetDefault("accelerate.codec_max_pool_size", cfg.MaxPoolSize)
	v.SetDefault("accelerate.enabled", cfg.Accelerated)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "loading config file %q", path)
		}
	}

	cfg.D = v.GetInt("jpeg2000.d")
	cfg.G = v.GetInt("jpeg2000.g")
	cfg.Eb = v.GetInt("jpeg2000.qcd")
	cfg.MinTaskNumber = v.GetInt("accelerate.codec_min_task_number")
	cfg.MaxPoolSize = v.GetInt("accelerate.codec_max_pool_size")
	cfg.Accelerated = v.GetBool("accelerate.enabled")
	return cfg, nil
}
