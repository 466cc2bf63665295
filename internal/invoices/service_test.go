package invoices

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	invoices map[string]*Invoice
	nextID   int
	failErr  error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{invoices: make(map[string]*Invoice)}
}

func (r *memoryRepo) List(ctx context.Context, filters Filters) ([]Invoice, int, error) {
	if r.failErr != nil {
		return nil, 0, r.failErr
	}
	var out []Invoice
	for _, inv := range r.invoices {
		out = append(out, *inv)
	}
	return out, len(out), nil
}

func (r *memoryRepo) Get(ctx context.Context, id string) (Invoice, error) {
	if r.failErr != nil {
		return Invoice{}, r.failErr
	}
	inv, ok := r.invoices[id]
	if !ok {
		return Invoice{}, ErrNotFound
	}
	return *inv, nil
}

func (r *memoryRepo) Create(ctx context.Context, input Input, date time.Time) (string, error) {
	if r.failErr != nil {
		return "", r.failErr
	}
	r.nextID++
	id := fmt.Sprintf("inv-%d", r.nextID)
	r.invoices[id] = &Invoice{
		ID:         id,
		CustomerID: input.CustomerID,
		Amount:     input.Amount,
		Status:     input.Status,
		Date:       date,
	}
	return id, nil
}

func (r *memoryRepo) Update(ctx context.Context, id string, input Input) error {
	if r.failErr != nil {
		return r.failErr
	}
	inv, ok := r.invoices[id]
	if !ok {
		// zero rows affected, not an error
		return nil
	}
	inv.CustomerID = input.CustomerID
	inv.Amount = input.Amount
	inv.Status = input.Status
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id string) error {
	if r.failErr != nil {
		return r.failErr
	}
	delete(r.invoices, id)
	return nil
}

func newTestService(repo Repository) *Service {
	svc := NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.now = func() time.Time {
		return time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC)
	}
	return svc
}

func TestCreateInvoice(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := newTestService(repo)

	state := svc.CreateInvoice(ctx, formWith("c-1", "45.50", "paid"))
	require.Nil(t, state)
	require.Len(t, repo.invoices, 1)

	inv := repo.invoices["inv-1"]
	require.Equal(t, "c-1", inv.CustomerID)
	require.Equal(t, Cents(4550), inv.Amount)
	require.Equal(t, StatusPaid, inv.Status)
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), inv.Date)
}

func TestCreateInvoiceValidationFailure(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := newTestService(repo)

	state := svc.CreateInvoice(ctx, formWith("c-1", "0", "pending"))
	require.NotNil(t, state)
	require.Equal(t, "Missing Fields. Failed to Create Invoice.", state.Message)
	require.Equal(t, []string{"Please enter an amount greater than $0."}, state.Errors["amount"])
	require.Empty(t, repo.invoices)
}

func TestCreateInvoiceDatabaseError(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	repo.failErr = fmt.Errorf("connection refused")
	svc := newTestService(repo)

	state := svc.CreateInvoice(ctx, formWith("c-1", "10", "pending"))
	require.NotNil(t, state)
	require.Equal(t, "Database Error: Failed to Create Invoice.", state.Message)
	require.Empty(t, state.Errors)
}

func TestCreateInvoiceDuplicateSubmission(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := newTestService(repo)

	require.Nil(t, svc.CreateInvoice(ctx, formWith("c-1", "10", "pending")))
	require.Nil(t, svc.CreateInvoice(ctx, formWith("c-1", "10", "pending")))
	require.Len(t, repo.invoices, 2)
}

func TestUpdateInvoice(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	created := time.Date(2023, 11, 20, 0, 0, 0, 0, time.UTC)
	repo.invoices["inv-7"] = &Invoice{
		ID:         "inv-7",
		CustomerID: "c-1",
		Amount:     Cents(4550),
		Status:     StatusPending,
		Date:       created,
	}
	svc := newTestService(repo)

	state := svc.UpdateInvoice(ctx, "inv-7", formWith("c-2", "10", "paid"))
	require.Nil(t, state)

	inv := repo.invoices["inv-7"]
	require.Equal(t, "c-2", inv.CustomerID)
	require.Equal(t, Cents(1000), inv.Amount)
	require.Equal(t, StatusPaid, inv.Status)
	require.Equal(t, "inv-7", inv.ID)
	require.Equal(t, created, inv.Date)
}

func TestUpdateInvoiceValidationFailure(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	repo.invoices["inv-7"] = &Invoice{ID: "inv-7", CustomerID: "c-1", Amount: Cents(100), Status: StatusPending}
	svc := newTestService(repo)

	state := svc.UpdateInvoice(ctx, "inv-7", formWith("", "10", "paid"))
	require.NotNil(t, state)
	require.Equal(t, "Missing Fields. Failed to Edit Invoice.", state.Message)
	require.Equal(t, []string{"Please select a customer."}, state.Errors["customerId"])

	inv := repo.invoices["inv-7"]
	require.Equal(t, "c-1", inv.CustomerID)
	require.Equal(t, Cents(100), inv.Amount)
}

func TestUpdateInvoiceMissingRowSucceeds(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := newTestService(repo)

	state := svc.UpdateInvoice(ctx, "inv-404", formWith("c-1", "10", "paid"))
	require.Nil(t, state)
	require.Empty(t, repo.invoices)
}

func TestUpdateInvoiceDatabaseError(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	repo.failErr = fmt.Errorf("connection refused")
	svc := newTestService(repo)

	state := svc.UpdateInvoice(ctx, "inv-7", formWith("c-1", "10", "paid"))
	require.NotNil(t, state)
	require.Equal(t, "Database Error: Failed to Update Invoice.", state.Message)
}

func TestDeleteInvoice(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	repo.invoices["inv-7"] = &Invoice{ID: "inv-7"}
	svc := newTestService(repo)

	state := svc.DeleteInvoice(ctx, "inv-7")
	require.Nil(t, state)
	require.Empty(t, repo.invoices)
}

func TestDeleteInvoiceIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	repo.invoices["inv-7"] = &Invoice{ID: "inv-7"}
	svc := newTestService(repo)

	require.Nil(t, svc.DeleteInvoice(ctx, "inv-7"))
	require.Nil(t, svc.DeleteInvoice(ctx, "inv-7"))
	require.Empty(t, repo.invoices)
}

func TestDeleteInvoiceDatabaseError(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	repo.failErr = fmt.Errorf("connection refused")
	svc := newTestService(repo)

	state := svc.DeleteInvoice(ctx, "inv-7")
	require.NotNil(t, state)
	require.Equal(t, "Database Error: Failed to Delete Invoice.", state.Message)
}
