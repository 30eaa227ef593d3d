package routes

import "logdeck/internal/console/models"

// Decision is the gate's verdict on entering a route.
type Decision int

const (
	// DecisionDeny blocks the navigation; Result.Redirect says where to go
	// instead.
	DecisionDeny Decision = iota
	// DecisionAllow admits the navigation.
	DecisionAllow
	// DecisionAllowPending admits a role-gated navigation provisionally:
	// a credential exists but the profile has not been resolved yet, so
	// the role cannot be checked. The request authorizer's 401/403
	// handling is the backstop that corrects a wrongly-allowed entry once
	// the view's first data call fails.
	DecisionAllowPending
)

// Result is the gate's full answer: the decision plus, when denied, the
// redirect target and (for login redirects) the path to resume afterwards.
type Result struct {
	Decision  Decision
	Redirect  string
	ReturnURL string
}

// Allowed reports whether navigation may proceed (provisionally or not).
func (r Result) Allowed() bool {
	return r.Decision != DecisionDeny
}

// SessionPeek is the synchronous, non-blocking view of session state the
// gate needs. Satisfied by *session.Session, whose values mirror the
// credential store.
type SessionPeek interface {
	Token() string
	User() *models.User
}

// Guard evaluates the gate. It reads session state and never mutates it.
type Guard struct {
	session SessionPeek
}

func NewGuard(session SessionPeek) *Guard {
	return &Guard{session: session}
}

// Check gates entry into route when navigating to requested (usually the
// route's own path; kept separate so deep links preserve their full form as
// the return target).
//
//  1. No credential: deny, redirect to login, remember requested.
//  2. Role-gated and the profile is resident: allow iff the role matches,
//     otherwise deny toward the default landing route. The user is
//     authenticated, just unauthorized for this view.
//  3. Role-gated but the profile is still loading: allow provisionally.
func (g *Guard) Check(route Route, requested string) Result {
	if g.session.Token() == "" {
		return Result{Decision: DecisionDeny, Redirect: LoginPath, ReturnURL: requested}
	}

	if len(route.Roles) == 0 {
		return Result{Decision: DecisionAllow}
	}

	user := g.session.User()
	if user == nil {
		return Result{Decision: DecisionAllowPending}
	}

	if user.HasAnyRole(route.Roles) {
		return Result{Decision: DecisionAllow}
	}
	return Result{Decision: DecisionDeny, Redirect: DefaultPath}
}
