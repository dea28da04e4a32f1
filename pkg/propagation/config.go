package propagation

import (
	"fmt"

	"github.com/vanetlab/gemv2/pkg/physics"
)

// NLOSvModel names the model used to compute the large-scale loss of a
// vehicle-obstructed link.
type NLOSvModel string

const (
	NLOSvModelSimple            NLOSvModel = "simple"
	NLOSvModelBullington        NLOSvModel = "bullington"
	NLOSvModelMultipleKnifeEdge NLOSvModel = "multiple-knife-edge"
)

// NLOSbModel names the model used to compute the large-scale loss of a
// building-obstructed link.
type NLOSbModel string

const (
	NLOSbModelLogDistance           NLOSbModel = "log-distance"
	NLOSbModelReflectionDiffraction NLOSbModel = "reflection-diffraction"
)

// LossTriple holds the three simple-model NLOSv loss values in dB, keyed
// by min(vehicle count, 3): index 0 for one obstructing vehicle, index 1
// for two, index 2 for three or more.
type LossTriple [3]float64

// Config bundles every tunable engine option. Zero-value Config is not
// valid; build one with DefaultConfig and override fields, then call
// Validate before passing it to NewEngine.
type Config struct {
	FrequencyHz             float64
	Polarization            physics.Polarization
	GroundPermittivity      float64
	MaxLOSRangeM            float64
	MaxNLOSvRangeM          float64
	MaxNLOSbRangeM          float64
	NLOSvModel              NLOSvModel
	NLOSbModel              NLOSbModel
	NLOSvSimpleLossTriple   LossTriple
	MaxVehicleDensityPerKm2 float64
	MaxObjectDensityRatio   float64
	DeterministicMode       bool

	// TxAntennaGainDbi and RxAntennaGainDbi are not part of the
	// reference's configuration surface (antenna gain there is a
	// property of the simulated device, outside this model), but the
	// two-ray and log-distance formulas need a value to combine with
	// transmit power; default to isotropic (0 dBi) unless overridden.
	TxAntennaGainDbi float64
	RxAntennaGainDbi float64
}

// DefaultConfig returns the reference model's default configuration.
func DefaultConfig() Config {
	return Config{
		FrequencyHz:             5.9e9,
		Polarization:            physics.PolarizationHorizontal,
		GroundPermittivity:      1.003,
		MaxLOSRangeM:            1000,
		MaxNLOSvRangeM:          500,
		MaxNLOSbRangeM:          300,
		NLOSvModel:              NLOSvModelSimple,
		NLOSbModel:              NLOSbModelLogDistance,
		NLOSvSimpleLossTriple:   LossTriple{2.0, 6.0, 10.0},
		MaxVehicleDensityPerKm2: 500,
		MaxObjectDensityRatio:   0.8,
		DeterministicMode:       false,
		TxAntennaGainDbi:        0,
		RxAntennaGainDbi:        0,
	}
}

// Validate reports a configuration error. An unimplemented model variant
// (NLOSv bullington/multiple-knife-edge, NLOSb reflection-diffraction)
// yields ErrModelNotImplemented; anything else unrecognized yields
// ErrInvalidConfig.
func (c Config) Validate() error {
	switch c.NLOSvModel {
	case NLOSvModelSimple:
	case NLOSvModelBullington, NLOSvModelMultipleKnifeEdge:
		return fmt.Errorf("%w: NLOSv model %q", ErrModelNotImplemented, c.NLOSvModel)
	default:
		return fmt.Errorf("%w: unknown NLOSv model %q", ErrInvalidConfig, c.NLOSvModel)
	}

	switch c.NLOSbModel {
	case NLOSbModelLogDistance:
	case NLOSbModelReflectionDiffraction:
		return fmt.Errorf("%w: NLOSb model %q", ErrModelNotImplemented, c.NLOSbModel)
	default:
		return fmt.Errorf("%w: unknown NLOSb model %q", ErrInvalidConfig, c.NLOSbModel)
	}

	if c.FrequencyHz <= 0 {
		return fmt.Errorf("%w: frequency_hz must be positive", ErrInvalidConfig)
	}
	if c.GroundPermittivity <= 1 {
		return fmt.Errorf("%w: ground_permittivity must exceed 1", ErrInvalidConfig)
	}
	if c.MaxLOSRangeM <= 0 || c.MaxNLOSvRangeM <= 0 || c.MaxNLOSbRangeM <= 0 {
		return fmt.Errorf("%w: max range values must be positive", ErrInvalidConfig)
	}
	if c.MaxVehicleDensityPerKm2 <= 0 {
		return fmt.Errorf("%w: max_vehicle_density_per_km2 must be positive", ErrInvalidConfig)
	}
	if c.MaxObjectDensityRatio <= 0 {
		return fmt.Errorf("%w: max_object_density_ratio must be positive", ErrInvalidConfig)
	}
	for i, v := range c.NLOSvSimpleLossTriple {
		if v < 0 {
			return fmt.Errorf("%w: nlosv_simple_loss_triple[%d] must be non-negative", ErrInvalidConfig, i)
		}
	}
	return nil
}

// ParsePolarization converts a configuration string into a
// physics.Polarization value.
func ParsePolarization(s string) (physics.Polarization, error) {
	switch s {
	case "horizontal":
		return physics.PolarizationHorizontal, nil
	case "vertical":
		return physics.PolarizationVertical, nil
	default:
		return 0, fmt.Errorf("%w: unknown antenna_polarization %q", ErrInvalidConfig, s)
	}
}
