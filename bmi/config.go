package bmi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/maseology/mmio"
)

// Sentinel error kinds of the coupling boundary (spec'd failure conditions
// are returned as values, never thrown).
var (
	ErrConfig          = errors.New("configuration error")
	ErrUnknownVariable = errors.New("unknown variable")
	ErrInvalidCount    = errors.New("illegal count")
	ErrNotImplemented  = errors.New("not implemented")
)

const (
	defaultTimeStepCount = 24
	defaultTimeStepSize  = 3600
)

// Config holds the stepping parameters read from a key=value file.
// EpochStartTime is required; the rest derive from each other.
type Config struct {
	EpochStartTime int64
	NumTimeSteps   int
	TimeStepSize   int
	ModelEndTime   int64
}

// ReadConfig parses a UTF-8 text file of key=value lines (one per line, no
// comments). A missing file, malformed line, or absent epoch_start_time is a
// fatal configuration error.
func ReadConfig(fp string) (Config, error) {
	var cfg Config
	if _, ok := mmio.FileExists(fp); !ok {
		return cfg, fmt.Errorf("bmi.ReadConfig: %w: file %s does not exist", ErrConfig, fp)
	}
	lns, err := mmio.ReadTextLines(fp)
	if err != nil {
		return cfg, fmt.Errorf("bmi.ReadConfig: %w: %v", ErrConfig, err)
	}
	epochSet := false
	for _, ln := range lns {
		ln = strings.TrimSpace(ln)
		if len(ln) == 0 {
			continue
		}
		k, v, ok := strings.Cut(ln, "=")
		if !ok {
			return cfg, fmt.Errorf("bmi.ReadConfig: %w: malformed line %q", ErrConfig, ln)
		}
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("bmi.ReadConfig: %w: %s: %v", ErrConfig, k, err)
		}
		switch strings.TrimSpace(k) {
		case "epoch_start_time":
			cfg.EpochStartTime = n
			epochSet = true
		case "num_time_steps":
			cfg.NumTimeSteps = int(n)
		case "time_step_size":
			cfg.TimeStepSize = int(n)
		case "model_end_time":
			cfg.ModelEndTime = n
		default:
			return cfg, fmt.Errorf("bmi.ReadConfig: %w: unrecognized key %q", ErrConfig, k)
		}
	}
	if !epochSet {
		return cfg, fmt.Errorf("bmi.ReadConfig: %w: required key epoch_start_time not found", ErrConfig)
	}
	return cfg, nil
}

// derive fills the optional stepping values: with neither step count nor end
// time given, fall back to the default count (valid only with the default
// step size); with one of the two given, compute the other from the step
// size.
func (c *Config) derive() error {
	if c.TimeStepSize == 0 {
		c.TimeStepSize = defaultTimeStepSize
	}
	if c.NumTimeSteps == 0 && c.ModelEndTime == 0 {
		if c.TimeStepSize != defaultTimeStepSize {
			return fmt.Errorf("bmi: %w: time_step_size given without num_time_steps or model_end_time", ErrConfig)
		}
		c.NumTimeSteps = defaultTimeStepCount
	}
	if c.ModelEndTime == 0 {
		c.ModelEndTime = int64(c.NumTimeSteps * c.TimeStepSize)
	}
	if c.NumTimeSteps == 0 {
		c.NumTimeSteps = int(c.ModelEndTime) / c.TimeStepSize
	}
	return nil
}
