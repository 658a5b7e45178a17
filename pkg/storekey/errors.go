package storekey

import "errors"

// ErrMalformedKey indicates a stored key does not match the "<TAG>#<id>"
// format or carries an unknown tag. It is treated as data corruption and is
// never silently repaired.
var ErrMalformedKey = errors.New("storekey: malformed key")
