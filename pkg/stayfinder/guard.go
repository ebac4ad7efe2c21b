package stayfinder

import (
	internalTypes "github.com/vedant5125/stayfinder-go/internal/types"
)

// Well-known navigation targets used by the guard and the transport's
// forced-logout redirect.
const (
	RouteLogin = internalTypes.RouteLogin
	RouteHome  = internalTypes.RouteHome
)

// GuardAction is what the consumer of a guard decision should do
type GuardAction int

const (
	// GuardWait means the session is still bootstrapping; show a
	// neutral loading state instead of the protected content
	GuardWait GuardAction = iota

	// GuardRedirect means navigate to Decision.Target
	GuardRedirect

	// GuardRender means the protected content may be shown
	GuardRender
)

// Decision is the outcome of a guard check
type Decision struct {
	Action GuardAction

	// Target is the redirect destination when Action is GuardRedirect
	Target string

	// ReturnTo carries the originally requested location so a login
	// flow can return there afterwards. Best-effort.
	ReturnTo string
}

// Guard gates protected content on session state and, optionally, on a
// required role.
type Guard struct {
	session      *Session
	requiredRole Role
}

// NewGuard creates a guard. A zero requiredRole admits any
// authenticated user.
func NewGuard(session *Session, requiredRole Role) *Guard {
	return &Guard{session: session, requiredRole: requiredRole}
}

// Check decides what to do with a request for the protected content at
// location.
func (g *Guard) Check(location string) Decision {
	state, user, loading := g.session.snapshot()

	if loading {
		return Decision{Action: GuardWait}
	}

	switch state {
	case StateBootstrapping:
		return Decision{Action: GuardWait}

	case StateAnonymous:
		return Decision{
			Action:   GuardRedirect,
			Target:   RouteLogin,
			ReturnTo: location,
		}

	case StateAuthenticated:
		if g.requiredRole != "" && user.Role != g.requiredRole {
			// Silent downgrade, not an error page.
			return Decision{Action: GuardRedirect, Target: RouteHome}
		}
		return Decision{Action: GuardRender}
	}

	// Unknown states never render.
	return Decision{Action: GuardRedirect, Target: RouteHome}
}

// Resolve runs Check and performs any redirect through nav. It reports
// whether the protected content may be rendered.
func (g *Guard) Resolve(location string, nav Navigator) bool {
	decision := g.Check(location)
	if decision.Action == GuardRedirect && nav != nil {
		nav.Navigate(decision.Target)
	}
	return decision.Action == GuardRender
}
