package domain

// Actor is the identity on whose behalf an operation executes. The zero value
// is the anonymous actor.
type Actor struct {
	UserID string
	Email  string
	Role   string
}

// Anonymous returns the actor used when a request carries no credentials.
func Anonymous() Actor { return Actor{} }

// IsAnonymous reports whether no identity is attached.
func (a Actor) IsAnonymous() bool { return a.UserID == "" }

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return !a.IsAnonymous() && a.Role == RoleAdmin }

// IsRegular reports whether the actor holds the regular role.
func (a Actor) IsRegular() bool { return !a.IsAnonymous() && a.Role == RoleRegular }

// Is reports whether the actor is the user with the given id.
func (a Actor) Is(userID string) bool { return !a.IsAnonymous() && a.UserID == userID }
