package surface

import "errors"

// ErrNoFrame is returned when a primitive arrives outside Clear/Flush.
var ErrNoFrame = errors.New("surface: no frame in progress")
