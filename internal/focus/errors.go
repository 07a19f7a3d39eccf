package focus

import "errors"

var ErrUnknownBody = errors.New("focus: unknown body")
