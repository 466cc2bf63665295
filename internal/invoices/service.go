package invoices

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// Service runs the invoice form actions: extract, validate, write.
// Action methods return a nil *State when the write succeeded and the
// caller should invalidate the listing and redirect; a non-nil State
// carries the field errors and summary message to render instead.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

func (s *Service) List(ctx context.Context, filters Filters) ([]Invoice, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id string) (Invoice, error) {
	return s.repo.Get(ctx, id)
}

// CreateInvoice validates the submitted form and inserts one row. The
// invoice date is the current date at day granularity and is not
// taken from the caller.
func (s *Service) CreateInvoice(ctx context.Context, values url.Values) *State {
	input, state := ParseForm(values)
	if state != nil {
		state.Message = "Missing Fields. Failed to Create Invoice."
		return state
	}

	if _, err := s.repo.Create(ctx, input, s.today()); err != nil {
		s.logError("create invoice", err)
		return &State{Message: "Database Error: Failed to Create Invoice."}
	}
	return nil
}

// UpdateInvoice validates the submitted form and updates the row
// matching id, leaving date and id untouched. The id is trusted as
// given; updating a nonexistent row affects nothing and succeeds.
func (s *Service) UpdateInvoice(ctx context.Context, id string, values url.Values) *State {
	input, state := ParseForm(values)
	if state != nil {
		state.Message = "Missing Fields. Failed to Edit Invoice."
		return state
	}

	if err := s.repo.Update(ctx, id, input); err != nil {
		s.logError("update invoice", err, slog.String("id", id))
		return &State{Message: "Database Error: Failed to Update Invoice."}
	}
	return nil
}

// DeleteInvoice removes the row matching id. No validation and no
// existence check: deleting a missing row affects zero rows and is a
// success, so the operation is idempotent.
func (s *Service) DeleteInvoice(ctx context.Context, id string) *State {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logError("delete invoice", err, slog.String("id", id))
		return &State{Message: "Database Error: Failed to Delete Invoice."}
	}
	return nil
}

func (s *Service) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *Service) logError(op string, err error, attrs ...slog.Attr) {
	args := []any{slog.Any("error", err)}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23503 here means the submitted customer does not exist;
		// referential integrity is the database's job, not ours.
		args = append(args, slog.String("pgcode", pgErr.Code))
	}
	for _, attr := range attrs {
		args = append(args, attr)
	}
	s.logger.Error(op, args...)
}
