package celestial

import "errors"

// ErrUnknownBody indicates a body id that is not part of the system.
var ErrUnknownBody = errors.New("celestial: unknown body")
