package propagation

import "fmt"

// LinkType classifies the geometric relationship between two endpoints.
type LinkType int

const (
	LinkUnknown LinkType = iota
	LinkLOS
	LinkNLOSv
	LinkNLOSb
	LinkNLOSf

	linkTypeCount
)

func (lt LinkType) String() string {
	switch lt {
	case LinkLOS:
		return "LOS"
	case LinkNLOSv:
		return "NLOSv"
	case LinkNLOSb:
		return "NLOSb"
	case LinkNLOSf:
		return "NLOSf"
	default:
		return "Unknown"
	}
}

// SigmaRange bounds the small-scale fading standard deviation for a link
// type: sigma is interpolated between Min and Max by ellipse occupancy.
type SigmaRange struct {
	Min, Max float64
}

// PropagationParameters holds the tuning knobs for the V2V channel model
// that are not exposed as engine configuration: per-link-type small-scale
// fading bounds and the NLOSb/NLOSf path-loss exponents. Immutable once
// constructed; use NewPropagationParameters to build a validated value.
type PropagationParameters struct {
	sigma                 [linkTypeCount]SigmaRange
	nlosbPathLossExponent float64
	nlosfPathLossExponent float64
}

// DefaultPropagationParameters returns the reference channel model's
// tuning values.
func DefaultPropagationParameters() PropagationParameters {
	p := PropagationParameters{
		nlosbPathLossExponent: 2.9,
		nlosfPathLossExponent: 2.7,
	}
	p.sigma[LinkLOS] = SigmaRange{Min: 3.3, Max: 5.2}
	p.sigma[LinkNLOSv] = SigmaRange{Min: 3.8, Max: 5.3}
	p.sigma[LinkNLOSb] = SigmaRange{Min: 4.1, Max: 6.8}
	p.sigma[LinkNLOSf] = SigmaRange{Min: 4.1, Max: 6.8}
	return p
}

// NewPropagationParameters validates a caller-supplied set of per-class
// sigma ranges and path-loss exponents.
func NewPropagationParameters(sigma map[LinkType]SigmaRange, nlosbExponent, nlosfExponent float64) (PropagationParameters, error) {
	p := PropagationParameters{
		nlosbPathLossExponent: nlosbExponent,
		nlosfPathLossExponent: nlosfExponent,
	}
	for lt, r := range sigma {
		if lt <= LinkUnknown || lt >= linkTypeCount {
			return PropagationParameters{}, fmt.Errorf("propagation: unknown link type %v in sigma map", lt)
		}
		p.sigma[lt] = r
	}
	if err := p.Validate(); err != nil {
		return PropagationParameters{}, err
	}
	return p, nil
}

// Validate reports an error if any sigma range is inverted or any
// path-loss exponent is non-positive.
func (p PropagationParameters) Validate() error {
	for lt := LinkLOS; lt < linkTypeCount; lt++ {
		r := p.sigma[lt]
		if r.Min > r.Max {
			return fmt.Errorf("propagation: sigma_min > sigma_max for link type %v (%f > %f)", lt, r.Min, r.Max)
		}
	}
	if p.nlosbPathLossExponent <= 0 {
		return fmt.Errorf("propagation: NLOSb path-loss exponent must be positive, got %f", p.nlosbPathLossExponent)
	}
	if p.nlosfPathLossExponent <= 0 {
		return fmt.Errorf("propagation: NLOSf path-loss exponent must be positive, got %f", p.nlosfPathLossExponent)
	}
	return nil
}

// SigmaMin returns the minimum small-scale fading standard deviation for
// the given link type.
func (p PropagationParameters) SigmaMin(lt LinkType) float64 { return p.sigma[lt].Min }

// SigmaMax returns the maximum small-scale fading standard deviation for
// the given link type.
func (p PropagationParameters) SigmaMax(lt LinkType) float64 { return p.sigma[lt].Max }

// NLOSbPathLossExponent returns the log-distance path-loss exponent used
// for building-obstructed links.
func (p PropagationParameters) NLOSbPathLossExponent() float64 { return p.nlosbPathLossExponent }

// NLOSfPathLossExponent returns the log-distance path-loss exponent used
// for foliage-obstructed links. Currently unused by the engine, which
// treats every NLOSf link as out of range (see Engine.largeScaleTerm),
// but retained for a future implementation of that branch.
func (p PropagationParameters) NLOSfPathLossExponent() float64 { return p.nlosfPathLossExponent }
