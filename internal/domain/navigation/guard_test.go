package navigation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicedesk/internal/core/apperror"
)

type fakeAuth struct {
	authenticated bool
	err           error
	calls         int
}

func (f *fakeAuth) IsAuthenticated(context.Context) (bool, error) {
	f.calls++
	return f.authenticated, f.err
}

type outcomeCounter map[Outcome]int

func (c outcomeCounter) NavigationDecided(o Outcome) { c[o]++ }

func TestGuard_DecideTruthTable(t *testing.T) {
	tests := []struct {
		requiresAuth  bool
		authenticated bool
		want          Outcome
	}{
		{requiresAuth: false, authenticated: false, want: Allow},
		{requiresAuth: false, authenticated: true, want: Allow},
		{requiresAuth: true, authenticated: true, want: Allow},
		{requiresAuth: true, authenticated: false, want: Redirect},
	}

	var g Guard
	for _, tt := range tests {
		route := Route{Path: "/x", Component: "X", RequiresAuth: tt.requiresAuth}
		d := g.Decide(route, tt.authenticated)

		assert.Equal(t, tt.want, d.Outcome, "requiresAuth=%v authenticated=%v", tt.requiresAuth, tt.authenticated)
		if tt.want == Redirect {
			assert.Equal(t, LoginPath, d.Target)
		} else {
			assert.Equal(t, "/x", d.Target)
		}
	}
}

func TestDefaultTable(t *testing.T) {
	table := DefaultTable()

	for _, path := range []string{"/", "/invoice", "/receipt", "/quotation"} {
		r, err := table.Lookup(path)
		require.NoError(t, err)
		assert.True(t, r.RequiresAuth, path)
	}

	login, err := table.Lookup(LoginPath)
	require.NoError(t, err)
	assert.False(t, login.RequiresAuth)
	assert.Equal(t, "Login", login.Component)

	_, err = table.Lookup("/settings")
	assert.True(t, apperror.IsNotFound(err))
}

func TestNewTable_FirstEntryWins(t *testing.T) {
	table := NewTable(
		Route{Path: "/a", Component: "First", RequiresAuth: true},
		Route{Path: "/a", Component: "Second"},
	)

	r, err := table.Lookup("/a")
	require.NoError(t, err)
	assert.Equal(t, "First", r.Component)
	assert.Len(t, table.Routes(), 1)
}

func TestNavigator_RedirectThenAllowAfterLogin(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{}
	counter := outcomeCounter{}
	nav := NewNavigator(DefaultTable(), auth, counter)

	d, err := nav.Navigate(ctx, "/invoice")
	require.NoError(t, err)
	assert.Equal(t, Redirect, d.Outcome)
	assert.Equal(t, "/login", d.Target)

	auth.authenticated = true

	d, err = nav.Navigate(ctx, "/invoice")
	require.NoError(t, err)
	assert.Equal(t, Allow, d.Outcome)
	assert.Equal(t, "InvoicePage", d.Route.Component)

	assert.Equal(t, 2, auth.calls, "flag must be read on every transition")
	assert.Equal(t, 1, counter[Redirect])
	assert.Equal(t, 1, counter[Allow])
}

func TestNavigator_FlagChangeBetweenTransitions(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{authenticated: true}
	nav := NewNavigator(DefaultTable(), auth, nil)

	d, err := nav.Navigate(ctx, "/receipt")
	require.NoError(t, err)
	assert.True(t, d.Allowed())

	auth.authenticated = false
	d, err = nav.Navigate(ctx, "/receipt")
	require.NoError(t, err)
	assert.False(t, d.Allowed())
}

func TestNavigator_LoginAlwaysAllowed(t *testing.T) {
	auth := &fakeAuth{err: errors.New("should not be called")}
	nav := NewNavigator(DefaultTable(), auth, nil)

	d, err := nav.Navigate(context.Background(), LoginPath)
	require.NoError(t, err)
	assert.True(t, d.Allowed())
	assert.Zero(t, auth.calls)
}

func TestNavigator_Errors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("storage down")
	nav := NewNavigator(DefaultTable(), &fakeAuth{err: boom}, nil)

	_, err := nav.Navigate(ctx, "/")
	assert.ErrorIs(t, err, boom)

	_, err = nav.Navigate(ctx, "/unknown")
	assert.True(t, apperror.IsNotFound(err))
}
