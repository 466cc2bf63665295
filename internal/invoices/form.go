package invoices

import (
	"math"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Messages surfaced next to each form field on validation failure.
const (
	msgCustomer = "Please select a customer."
	msgAmount   = "Please enter an amount greater than $0."
	msgStatus   = "Please select an invoice status."
)

// State is the structured result handed back to the form renderer when
// an action does not redirect: field-keyed validation messages plus a
// summary line.
type State struct {
	Errors  map[string][]string
	Message string
}

type invoiceForm struct {
	CustomerID string  `validate:"required"`
	Amount     float64 `validate:"gt=0"`
	Status     string  `validate:"required,oneof=pending paid"`
}

var formValidator = validator.New()

// ParseForm extracts customerId, amount and status from the submitted
// values and validates them. Validation is all-or-nothing: any invalid
// field fails the whole submission and no Input is produced. Create
// and update share this ruleset.
func ParseForm(values url.Values) (Input, *State) {
	errs := map[string][]string{}

	form := invoiceForm{
		CustomerID: values.Get("customerId"),
		Status:     values.Get("status"),
	}

	// ParseFloat accepts "Inf" and "NaN"; neither is a billable amount.
	amount, err := strconv.ParseFloat(values.Get("amount"), 64)
	if err != nil || math.IsInf(amount, 0) || math.IsNaN(amount) {
		errs["amount"] = append(errs["amount"], msgAmount)
	} else {
		form.Amount = amount
	}

	if err := formValidator.Struct(form); err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			switch fieldErr.Field() {
			case "CustomerID":
				errs["customerId"] = append(errs["customerId"], msgCustomer)
			case "Amount":
				if len(errs["amount"]) == 0 {
					errs["amount"] = append(errs["amount"], msgAmount)
				}
			case "Status":
				errs["status"] = append(errs["status"], msgStatus)
			}
		}
	}

	if len(errs) > 0 {
		return Input{}, &State{Errors: errs}
	}

	return Input{
		CustomerID: form.CustomerID,
		Amount:     CentsFromAmount(form.Amount),
		Status:     Status(form.Status),
	}, nil
}
