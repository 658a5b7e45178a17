package session

import "errors"

// ErrInvalidSession indicates a presented session id does not resolve:
// it is malformed, absent from the store, or its row is corrupt. Callers
// cannot distinguish the causes; all of them terminate authentication.
var ErrInvalidSession = errors.New("session: invalid")
