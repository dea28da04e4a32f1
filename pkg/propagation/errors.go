package propagation

import "errors"

// ErrModelNotImplemented is returned by Config validation when the
// caller selects a model variant that is declared but never implemented
// — the NLOSv "bullington" and "multiple-knife-edge" knife-edge models,
// and the NLOSb "reflection-diffraction" model. The reference
// implementation aborts at runtime the first time such a link is
// classified; this port instead rejects the configuration up front, at
// the boundary where input errors are supposed to surface, rather than
// deep inside a query.
var ErrModelNotImplemented = errors.New("propagation: model variant not implemented")

// ErrInvalidConfig is returned by Config validation for any invalid value
// other than an unimplemented variant of a known model: an unknown model
// name, a non-positive frequency, range, vehicle density or object density
// ratio, a ground permittivity not above 1, or a negative NLOSv loss-triple
// entry. ParsePolarization also returns it for an unknown polarization.
var ErrInvalidConfig = errors.New("propagation: invalid configuration")
