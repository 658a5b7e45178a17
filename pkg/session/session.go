package session

// Session is a server-issued identity token, optionally bound to a user.
type Session struct {
	ID        string
	UserID    *string // nil denotes an anonymous session
	CSRFToken string
}

// IsAuthenticated reports whether the session is bound to a user.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.UserID != nil
}
