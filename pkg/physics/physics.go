// Package physics implements the closed-form radio propagation formulas
// used by the engine's large-scale loss models: free-space loss,
// log-distance loss, the two-ray ground E-field, and the E-field-to-power
// conversion.
package physics

import "math"

// SpeedOfLight is c in meters per second.
const SpeedOfLight = 299792458.0

// Polarization selects the reflection-coefficient formula used by
// TwoRayGroundEfield.
type Polarization int

const (
	PolarizationHorizontal Polarization = iota
	PolarizationVertical
)

// FreeSpaceLoss returns the free-space path loss in dB at the given
// distance (m) and frequency (Hz).
func FreeSpaceLoss(distance, frequency float64) float64 {
	return 20.0 * math.Log10(4.0*math.Pi*distance*frequency/SpeedOfLight)
}

// LogDistanceLoss returns the log-distance path loss in dB at distance d
// (m) with path-loss exponent n, referenced to 1 m.
func LogDistanceLoss(distance, frequency, exponent float64) float64 {
	return FreeSpaceLoss(1.0, frequency) + 10.0*exponent*math.Log10(distance)
}

// TwoRayGroundEfield computes the total E-field at the receiver for a
// transmitter at (xt,yt,zt) and receiver at (xr,yr,zr), using the two-ray
// ground reflection model. txPowerDbm and txGainDbi are the transmitter's
// power and antenna gain; groundPermittivity is the relative permittivity
// of the reflecting surface.
func TwoRayGroundEfield(
	xt, yt, zt, xr, yr, zr float64,
	frequency, txPowerDbm, txGainDbi float64,
	pol Polarization,
	groundPermittivity float64,
) float64 {
	d2 := math.Hypot(xt-xr, yt-yr)
	dLos := math.Hypot(d2, zt-zr)
	dGround := math.Hypot(d2, zt+zr)

	sinTheta := (zt + zr) / dGround
	cosTheta := d2 / dGround
	s := math.Sqrt(groundPermittivity - cosTheta*cosTheta)

	var reflection float64
	switch pol {
	case PolarizationVertical:
		reflection = (-groundPermittivity*sinTheta + s) / (groundPermittivity*sinTheta + s)
	default:
		reflection = (sinTheta - s) / (sinTheta + s)
	}

	txPowerW := math.Pow(10.0, txPowerDbm/10.0) / 1000.0
	txGainFactor := math.Pow(10.0, txGainDbi/10.0)

	const d0 = 1.0
	pd0 := txPowerW * txGainFactor / (4.0 * math.Pi * d0 * d0)
	e0 := math.Sqrt(pd0 * 120.0 * math.Pi)

	angularFreq := 2.0 * math.Pi * frequency
	return e0*d0/dLos +
		reflection*(e0*d0/dGround)*math.Cos(angularFreq*(dLos/SpeedOfLight-dGround/SpeedOfLight))
}

// EfieldToDbm converts a total E-field magnitude to received power in dBm
// given the receiver antenna gain (dBi) and the carrier frequency (Hz).
func EfieldToDbm(eTot, rxGainDbi, frequency float64) float64 {
	rxGainFactor := math.Pow(10.0, rxGainDbi/10.0)
	wavelength := SpeedOfLight / frequency
	rxPowerW := eTot * eTot * rxGainFactor * wavelength * wavelength / (480.0 * math.Pi * math.Pi)
	return 10.0 * math.Log10(rxPowerW*1000.0)
}
