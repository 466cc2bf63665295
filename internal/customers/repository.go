package customers

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository exposes the read-only customer lookup backing the invoice
// form's customer select and the listing join.
type Repository interface {
	List(ctx context.Context) ([]Customer, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Customer, error) {
	query := `SELECT id, name, email FROM customers ORDER BY name ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}
