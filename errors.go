package mcmc

import "errors"

// ErrInvalidParameter is returned when an argument violates a documented
// precondition. Callers should test for it with errors.Is.
var ErrInvalidParameter = errors.New("invalid parameter")
