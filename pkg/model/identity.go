package model

// Identity is an authenticated user as reported by the identity provider
type Identity struct {
	ID string `json:"id"`
}

// IdentitySignal is the current authentication state of the session
type IdentitySignal struct {
	IsAuthenticated bool      `json:"isAuthenticated"`
	Identity        *Identity `json:"identity,omitempty"`
}

// Anonymous returns the signal of a playground session
func Anonymous() IdentitySignal {
	return IdentitySignal{}
}

// Authenticated returns the signal of a signed-in session
func Authenticated(id string) IdentitySignal {
	return IdentitySignal{IsAuthenticated: true, Identity: &Identity{ID: id}}
}

// Current returns the identity when the signal is authenticated with a usable id
func (s IdentitySignal) Current() (Identity, bool) {
	if !s.IsAuthenticated || s.Identity == nil || s.Identity.ID == "" {
		return Identity{}, false
	}
	return *s.Identity, true
}
