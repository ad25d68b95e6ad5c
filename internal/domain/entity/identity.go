package entity

// Identity is the authenticated caller as decoded from an access token.
type Identity struct {
	UserID     string
	IsAdmin    bool
	IsBusiness bool
	SessionID  string
}

// Role names the caller's role for logs and events.
func (i Identity) Role() string {
	if i.IsAdmin {
		return "admin"
	}
	return "user"
}
