package noteservice

import "errors"

// ErrSearchDisabled is returned when the service runs without an index.
var ErrSearchDisabled = errors.New("search index disabled")
