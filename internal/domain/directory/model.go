// Package directory manages the clients relation exposed at /api/clients.
package directory

// Client is one row of the clients table.
type Client struct {
	ID    int64  `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
}
