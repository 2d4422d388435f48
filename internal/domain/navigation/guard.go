package navigation

import (
	"context"
	"fmt"

	"invoicedesk/pkg/logger"
)

// Outcome of a guard decision.
type Outcome string

const (
	Allow    Outcome = "allow"
	Redirect Outcome = "redirect"
)

// Decision is the result of evaluating the guard for one transition.
type Decision struct {
	Outcome Outcome
	Route   Route
	// Target is the path to navigate to: the route path on Allow, LoginPath on Redirect.
	Target string
}

// Allowed reports whether the transition may proceed.
func (d Decision) Allowed() bool {
	return d.Outcome == Allow
}

// AuthContext supplies the authentication flag.
type AuthContext interface {
	IsAuthenticated(ctx context.Context) (bool, error)
}

// Recorder receives every decision (metrics).
type Recorder interface {
	NavigationDecided(outcome Outcome)
}

// Guard decides whether a transition to a route is allowed.
type Guard struct{}

// Decide allows when the route does not require auth or the flag is set,
// and redirects to LoginPath otherwise.
func (Guard) Decide(route Route, authenticated bool) Decision {
	if !route.RequiresAuth || authenticated {
		return Decision{Outcome: Allow, Route: route, Target: route.Path}
	}
	return Decision{Outcome: Redirect, Route: route, Target: LoginPath}
}

// Navigator resolves paths against the table and applies the guard.
// The flag is read on every call; decisions are never cached.
type Navigator struct {
	table    *Table
	auth     AuthContext
	guard    Guard
	recorder Recorder
}

// NewNavigator creates a navigator. recorder may be nil.
func NewNavigator(table *Table, auth AuthContext, recorder Recorder) *Navigator {
	return &Navigator{table: table, auth: auth, recorder: recorder}
}

// Table returns the route table.
func (n *Navigator) Table() *Table {
	return n.table
}

// Navigate evaluates the guard for a transition to path.
func (n *Navigator) Navigate(ctx context.Context, path string) (Decision, error) {
	route, err := n.table.Lookup(path)
	if err != nil {
		return Decision{}, err
	}
	return n.Enter(ctx, route)
}

// Enter evaluates the guard for an already resolved route.
func (n *Navigator) Enter(ctx context.Context, route Route) (Decision, error) {
	authenticated := false
	if route.RequiresAuth {
		ok, err := n.auth.IsAuthenticated(ctx)
		if err != nil {
			return Decision{}, fmt.Errorf("navigate %s: %w", route.Path, err)
		}
		authenticated = ok
	}

	decision := n.guard.Decide(route, authenticated)
	if n.recorder != nil {
		n.recorder.NavigationDecided(decision.Outcome)
	}
	if !decision.Allowed() {
		logger.Debug(ctx, "navigation redirected", "path", route.Path, "target", decision.Target)
	}
	return decision, nil
}
