package http

import "errors"

var errNoAnimations = errors.New("no animations rendered yet")
