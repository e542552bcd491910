package citypandemic

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Config is the top-level TOML configuration for a run: map geometry, the
// disease and orchestration constants, and where to send the logger's
// output. Grounded on the teacher's EvoEpiConfig (evoepi_config.go):
// nested per-section structs under toml tags, each with its own Validate,
// and a validated flag that Validate sets on success.
type Config struct {
	Simulation *simulationConfig `toml:"simulation"`
	Disease    *diseaseConfig    `toml:"disease"`
	Logging    *loggingConfig    `toml:"logging"`

	validated bool
}

// Validate checks every section in turn, in the teacher's own order
// (simulation parameters, then the domain model, then logging).
func (c *Config) Validate() error {
	if c.Simulation == nil {
		return errors.New("missing required [simulation] section")
	}
	if c.Disease == nil {
		return errors.New("missing required [disease] section")
	}
	if c.Logging == nil {
		return errors.New("missing required [logging] section")
	}
	if err := c.Simulation.Validate(); err != nil {
		return errors.Wrap(err, "invalid [simulation] section")
	}
	if err := c.Disease.Validate(); err != nil {
		return errors.Wrap(err, "invalid [disease] section")
	}
	if err := c.Logging.Validate(); err != nil {
		return errors.Wrap(err, "invalid [logging] section")
	}
	if err := c.validateDiffusionStability(); err != nil {
		return errors.Wrap(err, "invalid [simulation]/[disease] combination")
	}
	c.validated = true
	return nil
}

// validateDiffusionStability checks grid_spacing/poll_interval against
// diffusion_kappa/diffusion_decay via the same CFL-like precondition
// Grid.Diffuse itself enforces at run time (grid.go), so a bad
// combination is rejected at load time instead of panicking on the
// simulation's first Poll tick.
func (c *Config) validateDiffusionStability() error {
	dx := c.Simulation.GridSpacing
	dt := c.Simulation.PollInterval
	diffTerm := dt * c.Disease.Kappa / (dx * dx)
	centerTerm := 1 - 4*diffTerm - dt*c.Disease.Decay
	if centerTerm <= 0 {
		return fmt.Errorf(StabilityViolationError, centerTerm)
	}
	return nil
}

// NumInstances returns the number of independent realizations to run.
func (c *Config) NumInstances() int { return c.Simulation.NumInstances }

// Seed returns the configured [simulation] seed. The citypandemic command
// does not read it; it seeds instance i with its -seed flag plus i.
func (c *Config) Seed() int64 { return c.Simulation.Seed }

// ModelParams builds the ModelParams this config describes.
func (c *Config) ModelParams() ModelParams {
	return ModelParams{
		ERatio:        c.Simulation.InitialExposedRatio,
		IRatio:        c.Simulation.InitialInfectiousRatio,
		Kappa:         c.Disease.Kappa,
		Decay:         c.Disease.Decay,
		AbsorbFloor:   c.Disease.AbsorbFloor,
		AirborneScale: c.Disease.AirborneScale,
	}
}

// DiseaseParams builds the DiseaseParams this config describes.
func (c *Config) DiseaseParams() DiseaseParams {
	return DiseaseParams{
		TInf:          c.Disease.MeanInfectiousSeconds,
		TInc:          c.Disease.MeanIncubationSeconds,
		R0:            c.Disease.R0,
		DefaultPHosp:  c.Disease.DefaultPHosp,
		DefaultPDeath: c.Disease.DefaultPDeath,
	}
}

// Bounds builds the map Bounds this config describes.
func (c *Config) Bounds() Bounds {
	s := c.Simulation
	return Bounds{MinX: s.MinX, MinY: s.MinY, MaxX: s.MaxX, MaxY: s.MaxY}
}

type simulationConfig struct {
	NumInstances int     `toml:"num_instances"`
	Seed         int64   `toml:"seed"`
	GridSpacing  float64 `toml:"grid_spacing"`  // dx, meters per concentration grid cell
	PollInterval float64 `toml:"poll_interval"` // deltaT, seconds between Poll ticks

	MinX float64 `toml:"min_x"`
	MinY float64 `toml:"min_y"`
	MaxX float64 `toml:"max_x"`
	MaxY float64 `toml:"max_y"`

	InitialExposedRatio    float64 `toml:"initial_exposed_ratio"`
	InitialInfectiousRatio float64 `toml:"initial_infectious_ratio"`
}

func (c *simulationConfig) Validate() error {
	if c.NumInstances < 1 {
		return fmt.Errorf(InvalidIntParameterError, "num_instances", c.NumInstances, "must be greater than or equal to 1")
	}
	if c.GridSpacing <= 0 {
		return fmt.Errorf(InvalidFloatParameterError, "grid_spacing", c.GridSpacing, "must be greater than 0")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf(InvalidFloatParameterError, "poll_interval", c.PollInterval, "must be greater than 0")
	}
	if c.MaxX <= c.MinX || c.MaxY <= c.MinY {
		return fmt.Errorf(InvalidFloatParameterError, "min_x/min_y/max_x/max_y", c.MaxX, "max bound must exceed min bound on both axes")
	}
	if c.InitialExposedRatio < 0 || c.InitialExposedRatio > 1 {
		return fmt.Errorf(InvalidFloatParameterError, "initial_exposed_ratio", c.InitialExposedRatio, "must be within [0, 1]")
	}
	if c.InitialInfectiousRatio < 0 || c.InitialInfectiousRatio > 1 {
		return fmt.Errorf(InvalidFloatParameterError, "initial_infectious_ratio", c.InitialInfectiousRatio, "must be within [0, 1]")
	}
	return nil
}

type diseaseConfig struct {
	MeanIncubationSeconds float64 `toml:"mean_incubation_seconds"`
	MeanInfectiousSeconds float64 `toml:"mean_infectious_seconds"`
	R0                    float64 `toml:"r0"`
	DefaultPHosp          float64 `toml:"default_p_hosp"`
	DefaultPDeath         float64 `toml:"default_p_death"`

	Kappa         float64 `toml:"diffusion_kappa"`
	Decay         float64 `toml:"diffusion_decay"`
	AbsorbFloor   float64 `toml:"absorb_floor"`
	AirborneScale float64 `toml:"airborne_scale"`
}

func (c *diseaseConfig) Validate() error {
	if c.MeanIncubationSeconds <= 0 {
		return fmt.Errorf(InvalidFloatParameterError, "mean_incubation_seconds", c.MeanIncubationSeconds, "must be greater than 0")
	}
	if c.MeanInfectiousSeconds <= 0 {
		return fmt.Errorf(InvalidFloatParameterError, "mean_infectious_seconds", c.MeanInfectiousSeconds, "must be greater than 0")
	}
	if c.R0 <= 0 {
		return fmt.Errorf(InvalidFloatParameterError, "r0", c.R0, "must be greater than 0")
	}
	if c.DefaultPHosp < 0 || c.DefaultPHosp > 1 {
		return fmt.Errorf(InvalidFloatParameterError, "default_p_hosp", c.DefaultPHosp, "must be within [0, 1]")
	}
	if c.DefaultPDeath < 0 || c.DefaultPDeath > 1 {
		return fmt.Errorf(InvalidFloatParameterError, "default_p_death", c.DefaultPDeath, "must be within [0, 1]")
	}
	if c.Kappa < 0 {
		return fmt.Errorf(InvalidFloatParameterError, "diffusion_kappa", c.Kappa, "cannot be negative")
	}
	if c.Decay < 0 {
		return fmt.Errorf(InvalidFloatParameterError, "diffusion_decay", c.Decay, "cannot be negative")
	}
	if c.AbsorbFloor < 0 {
		return fmt.Errorf(InvalidFloatParameterError, "absorb_floor", c.AbsorbFloor, "cannot be negative")
	}
	if c.AirborneScale <= 0 {
		return fmt.Errorf(InvalidFloatParameterError, "airborne_scale", c.AirborneScale, "must be greater than 0")
	}
	return nil
}

type loggingConfig struct {
	LoggerType string `toml:"logger_type"` // csv, sqlite
	LogPath    string `toml:"log_path"`
}

func (c *loggingConfig) Validate() error {
	switch strings.ToLower(c.LoggerType) {
	case "csv", "sqlite":
	default:
		return fmt.Errorf(UnrecognizedKeywordError, c.LoggerType, "logger_type")
	}
	if c.LogPath == "" {
		return errors.New("log_path must not be empty")
	}
	return nil
}

// NewLogger builds the DataLogger named by c.Logging.LoggerType.
func (c *Config) NewLogger(instance int) (DataLogger, error) {
	switch strings.ToLower(c.Logging.LoggerType) {
	case "csv":
		return NewCSVLogger(c.Logging.LogPath, instance), nil
	case "sqlite":
		return NewSQLiteLogger(c.Logging.LogPath, instance), nil
	}
	return nil, fmt.Errorf(UnrecognizedKeywordError, c.Logging.LoggerType, "logger_type")
}
