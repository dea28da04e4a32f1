// Package propagation implements the GEMV² link classification and
// received-power model over a scene of buildings, foliage, and vehicles.
package propagation

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/vanetlab/gemv2/internal/logging"
	"github.com/vanetlab/gemv2/internal/otelmetrics"
	"github.com/vanetlab/gemv2/internal/telemetry"
	"github.com/vanetlab/gemv2/pkg/geom2d"
	"github.com/vanetlab/gemv2/pkg/physics"
	"github.com/vanetlab/gemv2/pkg/scene"
)

// outOfRangeNoise is the sentinel "no reception" value: the most
// negative finite double. Returning this instead of an optional keeps
// downstream SNR math branch-free.
const outOfRangeNoise = -math.MaxFloat64

// OutOfRangeNoise exposes the sentinel value RxPower returns for a link
// beyond its class's range gate, so callers can recognize it without
// depending on its exact bit pattern.
const OutOfRangeNoise = outOfRangeNoise

// Mobility is the position source for one endpoint of a link. Vehicle
// may return nil for an endpoint that is not itself a vehicle in the
// scene (e.g. a roadside unit).
type Mobility interface {
	Position() (x, y, z float64)
	Vehicle() *scene.Vehicle
}

// IdentifiableMobility is a Mobility that can also name itself, so
// telemetry samples record which endpoints a link ran between. It's an
// optional extension: RxPower type-asserts for it rather than requiring
// every Mobility implementation to carry an ID.
type IdentifiableMobility interface {
	Mobility
	ID() string
}

// idOf returns m's ID if it implements IdentifiableMobility, or "".
func idOf(m Mobility) string {
	if im, ok := m.(IdentifiableMobility); ok {
		return im.ID()
	}
	return ""
}

// Clock supplies simulated time for the vehicle-tree refresh predicate.
type Clock interface {
	Now() time.Time
}

// systemClock is the default Clock, backed by the wall clock. Most
// callers driving a discrete-event simulation will supply their own.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Engine classifies links against a Scene and computes received power.
// Not safe for concurrent RxPower calls against a mutating Scene; the
// concurrency contract requires all scene mutation to happen between
// queries (see scene.Scene, which does guard its own internal state).
type Engine struct {
	scene  *scene.Scene
	cfg    Config
	params PropagationParameters
	rng    RandomStream
	clock  Clock

	logger      logging.KeyValueLogger
	rawLogger   zerolog.Logger
	recorder    *telemetry.Recorder
	instruments *otelmetrics.Instruments
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithParameters overrides the default PropagationParameters.
func WithParameters(p PropagationParameters) Option {
	return func(e *Engine) { e.params = p }
}

// WithRandomStream overrides the default math/rand-backed RandomStream.
func WithRandomStream(rng RandomStream) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithClock overrides the default wall-clock Clock.
func WithClock(clock Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithLogger routes the engine's decision-point logs (classification,
// range-gate rejection, unimplemented-model failures) through logger
// instead of a no-op sink.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logging.NewZerologAdapter(logger)
		e.rawLogger = logger
		e.scene.SetLogger(logger)
	}
}

// WithTelemetryRecorder mirrors every RxPower call's outcome to
// recorder, asynchronously and without affecting the call's return
// value. Pass nil (the default) to disable mirroring.
func WithTelemetryRecorder(recorder *telemetry.Recorder) Option {
	return func(e *Engine) { e.recorder = recorder }
}

// WithInstruments exports a live count of classified links per LinkType,
// plus an rx-power histogram, through the given OpenTelemetry
// instruments. Pass nil (the default) to disable metrics.
func WithInstruments(instruments *otelmetrics.Instruments) Option {
	return func(e *Engine) { e.instruments = instruments }
}

// NewEngine validates cfg and constructs an Engine bound to sc. Returns
// an error if cfg selects an unimplemented or unrecognized model
// variant (see Config.Validate).
func NewEngine(sc *scene.Scene, cfg Config, opts ...Option) (*Engine, error) {
	if sc == nil {
		panic("propagation: NewEngine called with nil scene")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		scene:     sc,
		cfg:       cfg,
		params:    DefaultPropagationParameters(),
		rng:       NewRandomStream(1),
		clock:     systemClock{},
		logger:    logging.NewZerologAdapter(zerolog.Nop()),
		rawLogger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// SetScene swaps the scene the engine queries. The design allows
// swapping before use of a particular scene begins; swapping mid-query
// sequence is undefined, matching the Scene's own concurrency contract.
func (e *Engine) SetScene(sc *scene.Scene) {
	if sc == nil {
		panic("propagation: SetScene called with nil scene")
	}
	sc.SetLogger(e.rawLogger)
	e.scene = sc
}

// Scene returns the engine's current scene.
func (e *Engine) Scene() *scene.Scene { return e.scene }

// Config returns the engine's active configuration.
func (e *Engine) Config() Config { return e.cfg }

func excludeInvolved(vehicles []*scene.Vehicle, involved map[*scene.Vehicle]struct{}) []*scene.Vehicle {
	if len(involved) == 0 {
		return vehicles
	}
	out := make([]*scene.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if _, skip := involved[v]; !skip {
			out = append(out, v)
		}
	}
	return out
}

// RxPower computes the received power in dBm for a link between mobA and
// mobB transmitting at txPowerDbm. See the package doc and the design
// notes in types.go/config.go for the classification and loss-model
// details. Returns OutOfRangeNoise for a link beyond its class's range
// gate. mobA and mobB must be non-nil; a nil mobility endpoint is a
// programmer error.
func (e *Engine) RxPower(txPowerDbm float64, mobA, mobB Mobility) float64 {
	if mobA == nil || mobB == nil {
		panic("propagation: RxPower called with a nil mobility endpoint")
	}

	txID, rxID := idOf(mobA), idOf(mobB)

	ax, ay, az := mobA.Position()
	bx, by, bz := mobB.Position()
	dLos := math.Sqrt((ax-bx)*(ax-bx) + (ay-by)*(ay-by) + (az-bz)*(az-bz))
	if dLos > e.cfg.MaxLOSRangeM {
		e.logger.Debug("rx power: rejected before classification, beyond max LOS range",
			"tx", txID, "rx", rxID, "distance_m", dLos, "max_los_range_m", e.cfg.MaxLOSRangeM)
		e.finish(LinkUnknown, txID, rxID, dLos, outOfRangeNoise)
		return outOfRangeNoise
	}

	seg := geom2d.Segment2D{
		P1: geom2d.Point2D{X: ax, Y: ay},
		P2: geom2d.Point2D{X: bx, Y: by},
	}

	involved := make(map[*scene.Vehicle]struct{}, 2)
	if v := mobA.Vehicle(); v != nil {
		involved[v] = struct{}{}
	}
	if v := mobB.Vehicle(); v != nil {
		involved[v] = struct{}{}
	}

	now := e.clock.Now()

	class, rangeGate, vehiclesInLOS := e.classify(seg, involved, now)

	if dLos > rangeGate {
		e.logger.Debug("rx power: rejected, beyond class range gate",
			"tx", txID, "rx", rxID, "class", class.String(), "distance_m", dLos, "range_gate_m", rangeGate)
		e.finish(class, txID, rxID, dLos, outOfRangeNoise)
		return outOfRangeNoise
	}

	large, ok := e.largeScaleTerm(class, dLos, ax, ay, az, bx, by, bz, txPowerDbm, len(vehiclesInLOS))
	if !ok {
		e.logger.Debug("rx power: rejected, large-scale term has no reference implementation for class",
			"tx", txID, "rx", rxID, "class", class.String())
		e.finish(class, txID, rxID, dLos, outOfRangeNoise)
		return outOfRangeNoise
	}

	if e.cfg.DeterministicMode {
		e.finish(class, txID, rxID, dLos, large)
		return large
	}

	all := e.scene.FindAllInEllipse(now, seg.P1, seg.P2, rangeGate)
	vehiclesInEllipse := excludeInvolved(all.Vehicles, involved)

	ss := smallScaleVariation(
		dLos, rangeGate,
		all.Buildings, all.Foliage, len(vehiclesInEllipse),
		e.cfg.MaxVehicleDensityPerKm2, e.cfg.MaxObjectDensityRatio,
		e.params.SigmaMin(class), e.params.SigmaMax(class),
		e.rng,
	)

	rxPower := large - ss
	e.finish(class, txID, rxID, dLos, rxPower)
	return rxPower
}

// finish reports a completed classification to the optional telemetry
// recorder and OpenTelemetry instruments. Both are no-ops if unset, so
// callers that never opted in pay only the idOf/finish call overhead.
func (e *Engine) finish(class LinkType, txID, rxID string, distanceM, rxPowerDbm float64) {
	if e.instruments != nil {
		e.instruments.RecordClassification(context.Background(), class.String())
		e.instruments.RecordRxPower(context.Background(), rxPowerDbm, class.String())
	}
	if e.recorder != nil {
		e.recorder.Record(telemetry.Sample{
			Timestamp:  e.clock.Now(),
			TxID:       txID,
			RxID:       rxID,
			LinkType:   class.String(),
			DistanceM:  distanceM,
			RxPowerDbm: rxPowerDbm,
		})
	}
}

// classify implements the short-circuit classification order: buildings,
// then foliage, then vehicles, then LOS. Returns the chosen class, its
// range gate, and (only for NLOSv) the obstructing vehicles.
func (e *Engine) classify(seg geom2d.Segment2D, involved map[*scene.Vehicle]struct{}, now time.Time) (LinkType, float64, []*scene.Vehicle) {
	if e.scene.IntersectsAnyBuildings(seg) {
		e.logger.Debug("classify: link obstructed by a building", "class", LinkNLOSb.String())
		return LinkNLOSb, e.cfg.MaxNLOSbRangeM, nil
	}
	if e.scene.IntersectsAnyFoliage(seg) {
		// Range gate intentionally reuses the NLOSb bound rather than a
		// dedicated max-NLOSf-range option.
		e.logger.Debug("classify: link obstructed by foliage", "class", LinkNLOSf.String())
		return LinkNLOSf, e.cfg.MaxNLOSbRangeM, nil
	}
	vehiclesInLOS := excludeInvolved(e.scene.IntersectVehicles(now, seg), involved)
	if len(vehiclesInLOS) > 0 {
		e.logger.Debug("classify: link obstructed by vehicles",
			"class", LinkNLOSv.String(), "obstructing_vehicles", len(vehiclesInLOS))
		return LinkNLOSv, e.cfg.MaxNLOSvRangeM, vehiclesInLOS
	}
	e.logger.Debug("classify: clear line of sight", "class", LinkLOS.String())
	return LinkLOS, e.cfg.MaxLOSRangeM, nil
}

// largeScaleTerm computes the deterministic loss term for the given
// class. The bool result is false for the NLOSf branch, which this
// implementation always treats as out of range (see Config.Validate and
// the ErrModelNotImplemented doc for why NLOSb/NLOSv variants never
// reach here; NLOSf has no reference implementation to port at all).
func (e *Engine) largeScaleTerm(class LinkType, dLos, ax, ay, az, bx, by, bz, txPowerDbm float64, nVehiclesInLOS int) (float64, bool) {
	switch class {
	case LinkLOS:
		efield := physics.TwoRayGroundEfield(
			ax, ay, az, bx, by, bz,
			e.cfg.FrequencyHz, txPowerDbm, e.cfg.TxAntennaGainDbi,
			e.cfg.Polarization, e.cfg.GroundPermittivity,
		)
		return physics.EfieldToDbm(efield, e.cfg.RxAntennaGainDbi, e.cfg.FrequencyHz), true

	case LinkNLOSv:
		idx := nVehiclesInLOS
		if idx > 3 {
			idx = 3
		}
		if idx < 1 {
			idx = 1
		}
		extra := e.cfg.NLOSvSimpleLossTriple[idx-1]
		loss := physics.FreeSpaceLoss(dLos, e.cfg.FrequencyHz) + extra
		return txPowerDbm + e.cfg.TxAntennaGainDbi + e.cfg.RxAntennaGainDbi - loss, true

	case LinkNLOSb:
		loss := physics.LogDistanceLoss(dLos, e.cfg.FrequencyHz, e.params.NLOSbPathLossExponent())
		return txPowerDbm + e.cfg.TxAntennaGainDbi + e.cfg.RxAntennaGainDbi - loss, true

	case LinkNLOSf:
		return 0, false

	default:
		panic("propagation: unreachable link class in largeScaleTerm")
	}
}

// smallScaleVariation implements the ellipse-occupancy-weighted Gaussian
// fading term. d is the LOS distance, R the range gate that defines the
// communication ellipse's major diameter.
func smallScaleVariation(
	d, R float64,
	buildings []*scene.Building, foliage []*scene.Foliage, vehicleCount int,
	maxVehicleDensityPerKm2, maxObjectDensityRatio float64,
	sigmaMin, sigmaMax float64,
	rng RandomStream,
) float64 {
	a := R / 2
	bSq := a*a - d*d/4
	if bSq < 0 {
		// Guarded by the range gate in the caller (d <= R implies bSq >=
		// 0); clamp defensively rather than propagate NaN.
		bSq = 0
	}
	b := math.Sqrt(bSq)
	area := math.Pi * a * b

	var objArea float64
	for _, bld := range buildings {
		objArea += bld.Area()
	}
	for _, f := range foliage {
		objArea += f.Area()
	}

	var vehicleWeight, objectWeight float64
	if area > 0 {
		vehicleWeight = math.Min(1, math.Sqrt(float64(vehicleCount)/(maxVehicleDensityPerKm2*area*1e-6)))
		objectWeight = math.Min(1, math.Sqrt(objArea/(maxObjectDensityRatio*area)))
	}
	w := vehicleWeight + objectWeight

	sigma := sigmaMin + 0.5*w*(sigmaMax-sigmaMin)
	return rng.Normal(0, sigma)
}
