package orbit

import "errors"

// ErrInvalidElements indicates orbital elements outside their valid domain.
var ErrInvalidElements = errors.New("orbit: invalid orbital elements")
