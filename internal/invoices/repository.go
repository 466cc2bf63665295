package invoices

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Filters narrows the invoice listing.
type Filters struct {
	Page   int
	Limit  int
	Search string
}

type Repository interface {
	List(ctx context.Context, filters Filters) ([]Invoice, int, error)
	Get(ctx context.Context, id string) (Invoice, error)
	Create(ctx context.Context, input Input, date time.Time) (string, error)
	Update(ctx context.Context, id string, input Input) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const invoiceColumns = `invoices.id, invoices.customer_id, customers.name, customers.email, invoices.amount, invoices.status, invoices.date`

func (r *repository) List(ctx context.Context, filters Filters) ([]Invoice, int, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices JOIN customers ON customers.id = invoices.customer_id WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		query += ` AND (customers.name ILIKE $` + strconv.Itoa(argCount) + ` OR customers.email ILIKE $` + strconv.Itoa(argCount) + ` OR invoices.status ILIKE $` + strconv.Itoa(argCount) + `)`
		args = append(args, "%"+filters.Search+"%")
	}

	countQuery := `SELECT COUNT(*) FROM invoices JOIN customers ON customers.id = invoices.customer_id WHERE 1=1`
	countArgs := []interface{}{}
	if filters.Search != "" {
		countQuery += ` AND (customers.name ILIKE $1 OR customers.email ILIKE $1 OR invoices.status ILIKE $1)`
		countArgs = append(countArgs, "%"+filters.Search+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY invoices.date DESC, invoices.id DESC`

	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)

		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(&inv.ID, &inv.CustomerID, &inv.CustomerName, &inv.CustomerEmail, &inv.Amount, &inv.Status, &inv.Date); err != nil {
			return nil, 0, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices JOIN customers ON customers.id = invoices.customer_id WHERE invoices.id = $1`
	var inv Invoice
	err := r.db.QueryRow(ctx, query, id).Scan(&inv.ID, &inv.CustomerID, &inv.CustomerName, &inv.CustomerEmail, &inv.Amount, &inv.Status, &inv.Date)
	if errors.Is(err, pgx.ErrNoRows) {
		return Invoice{}, ErrNotFound
	}
	return inv, err
}

func (r *repository) Create(ctx context.Context, input Input, date time.Time) (string, error) {
	query := `INSERT INTO invoices (customer_id, amount, status, date) VALUES ($1, $2, $3, $4) RETURNING id`
	var id string
	err := r.db.QueryRow(ctx, query, input.CustomerID, int64(input.Amount), string(input.Status), date).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, id string, input Input) error {
	// date and id stay untouched; a miss affects zero rows and is not
	// an error.
	query := `UPDATE invoices SET customer_id = $1, amount = $2, status = $3 WHERE id = $4`
	_, err := r.db.Exec(ctx, query, input.CustomerID, int64(input.Amount), string(input.Status), id)
	return err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM invoices WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
