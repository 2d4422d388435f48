// Package navigation holds the page route table and the guard evaluated before
// every page transition.
package navigation

import (
	"invoicedesk/internal/core/apperror"
)

// LoginPath is the only route reachable without the authentication flag and
// the only redirect target.
const LoginPath = "/login"

// Route maps a path to a page component.
type Route struct {
	Path      string
	Component string

	// RequiresAuth is false when absent from the table definition.
	RequiresAuth bool
}

// Table is an ordered, immutable set of routes.
type Table struct {
	routes []Route
	byPath map[string]int
}

// NewTable builds a table. Duplicate paths keep the first entry, matching
// first-match routing.
func NewTable(routes ...Route) *Table {
	t := &Table{
		routes: make([]Route, 0, len(routes)),
		byPath: make(map[string]int, len(routes)),
	}
	for _, r := range routes {
		if _, dup := t.byPath[r.Path]; dup {
			continue
		}
		t.byPath[r.Path] = len(t.routes)
		t.routes = append(t.routes, r)
	}
	return t
}

// DefaultTable is the application route table.
func DefaultTable() *Table {
	return NewTable(
		Route{Path: "/", Component: "Dashboard", RequiresAuth: true},
		Route{Path: "/invoice", Component: "InvoicePage", RequiresAuth: true},
		Route{Path: "/receipt", Component: "ReceiptPage", RequiresAuth: true},
		Route{Path: "/quotation", Component: "QuotationPage", RequiresAuth: true},
		Route{Path: LoginPath, Component: "Login"},
	)
}

// Lookup returns the route registered for path.
func (t *Table) Lookup(path string) (Route, error) {
	i, ok := t.byPath[path]
	if !ok {
		return Route{}, apperror.NewRouteNotFound(path)
	}
	return t.routes[i], nil
}

// Routes returns a copy of the routes in declaration order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}
