package invoices

import (
	"errors"
	"math"
	"time"
)

// Status enumerates invoice payment states.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// Cents stores a currency amount in minor units so the database never
// holds a floating point value.
type Cents int64

// CentsFromAmount converts a major-unit amount to cents, rounding to
// the nearest cent.
func CentsFromAmount(amount float64) Cents {
	return Cents(math.Round(amount * 100))
}

// Amount converts back to major units for display.
func (c Cents) Amount() float64 {
	return float64(c) / 100
}

// Invoice model. CustomerName and CustomerEmail are joined in for the
// listing and are not part of the invoices table.
type Invoice struct {
	ID            string
	CustomerID    string
	CustomerName  string
	CustomerEmail string
	Amount        Cents
	Status        Status
	Date          time.Time
}

// Input is a validated create/update payload. Date and ID never appear
// here: the date is fixed at creation time and the row id is assigned
// by the database.
type Input struct {
	CustomerID string
	Amount     Cents
	Status     Status
}

// ErrNotFound indicates the requested invoice does not exist.
var ErrNotFound = errors.New("invoice not found")
