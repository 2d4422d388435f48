// Package directory_repo provides the PostgreSQL implementation of the
// clients directory.
package directory_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"invoicedesk/internal/domain/directory"
	"invoicedesk/internal/infrastructure/storage/postgres"
)

const clientsTable = "clients"

var _ directory.Repository = (*ClientRepo)(nil)

// ClientRepo reads and writes the clients table.
type ClientRepo struct {
	txm *postgres.TxManager
}

// NewClientRepo creates a new client repository.
func NewClientRepo(txm *postgres.TxManager) *ClientRepo {
	return &ClientRepo{txm: txm}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *ClientRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// List returns all clients ordered by id.
func (r *ClientRepo) List(ctx context.Context) ([]directory.Client, error) {
	sql, args, err := r.listQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var clients []directory.Client
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &clients, sql, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", clientsTable, err)
	}
	return clients, nil
}

// Create inserts a client and returns its id.
func (r *ClientRepo) Create(ctx context.Context, name, email string) (int64, error) {
	sql, args, err := r.insertQuery(name, email).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	var newID int64
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&newID); err != nil {
		return 0, fmt.Errorf("insert %s: %w", clientsTable, err)
	}
	return newID, nil
}

func (r *ClientRepo) listQuery() squirrel.SelectBuilder {
	return r.Builder().
		Select("id", "name", "email").
		From(clientsTable).
		OrderBy("id")
}

func (r *ClientRepo) insertQuery(name, email string) squirrel.InsertBuilder {
	return r.Builder().
		Insert(clientsTable).
		Columns("name", "email").
		Values(name, email).
		Suffix("RETURNING id")
}
