package invoices

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/billtrail/billtrail/internal/customers"
	"github.com/billtrail/billtrail/internal/view"
)

// ListingPath is the cached invoice listing every successful action
// redirects to.
const ListingPath = "/dashboard/invoices"

const defaultPageSize = 10

type Handler struct {
	logger    *slog.Logger
	service   *Service
	customers customers.Repository
	cache     *Cache
	templates *view.Engine
}

func NewHandler(logger *slog.Logger, service *Service, customersRepo customers.Repository, cache *Cache, templates *view.Engine) *Handler {
	return &Handler{logger: logger, service: service, customers: customersRepo, cache: cache, templates: templates}
}

// formValues echoes the raw submitted strings back into the form so a
// failed submission keeps what the user typed.
type formValues struct {
	CustomerID string
	Amount     string
	Status     string
}

func formValuesFrom(values url.Values) formValues {
	return formValues{
		CustomerID: values.Get("customerId"),
		Amount:     values.Get("amount"),
		Status:     values.Get("status"),
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	filters := Filters{
		Page:   page,
		Limit:  defaultPageSize,
		Search: r.URL.Query().Get("search"),
	}

	invoices, total, err := h.cache.FetchList(r.Context(), filters, func(ctx context.Context) ([]Invoice, int, error) {
		return h.service.List(ctx, filters)
	})
	if err != nil {
		h.logger.Error("list invoices failed", slog.Any("error", err))
		http.Error(w, "Failed to load invoices", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "pages/invoices_list.html", map[string]any{
		"Invoices": invoices,
		"Total":    total,
		"Filters":  filters,
	}, http.StatusOK)
}

func (h *Handler) CreateForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, createFormPage, formValues{}, nil, http.StatusOK)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	if state := h.service.CreateInvoice(r.Context(), r.PostForm); state != nil {
		h.renderForm(w, r, createFormPage, formValuesFrom(r.PostForm), state, statusFor(state))
		return
	}

	h.finish(w, r)
}

func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.invoiceID(w, r)
	if !ok {
		return
	}

	invoice, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "Invoice not found", http.StatusNotFound)
			return
		}
		h.logger.Error("get invoice failed", slog.Any("error", err), slog.String("id", id))
		http.Error(w, "Failed to load invoice", http.StatusInternalServerError)
		return
	}

	values := formValues{
		CustomerID: invoice.CustomerID,
		Amount:     strconv.FormatFloat(invoice.Amount.Amount(), 'f', 2, 64),
		Status:     string(invoice.Status),
	}
	h.renderForm(w, r, editFormPage(id), values, nil, http.StatusOK)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.invoiceID(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	if state := h.service.UpdateInvoice(r.Context(), id, r.PostForm); state != nil {
		h.renderForm(w, r, editFormPage(id), formValuesFrom(r.PostForm), state, statusFor(state))
		return
	}

	h.finish(w, r)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.invoiceID(w, r)
	if !ok {
		return
	}

	if state := h.service.DeleteInvoice(r.Context(), id); state != nil {
		http.Error(w, state.Message, http.StatusInternalServerError)
		return
	}

	h.finish(w, r)
}

// finish runs the post-action effects: bust the listing cache, then
// redirect to it. Success paths never render anything.
func (h *Handler) finish(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Warn("invalidate listing cache", slog.Any("error", err))
	}
	http.Redirect(w, r, ListingPath, http.StatusSeeOther)
}

func (h *Handler) invoiceID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		http.Error(w, "Invalid invoice ID", http.StatusBadRequest)
		return "", false
	}
	return id, true
}

type formPage struct {
	Heading string
	Action  string
	Submit  string
}

var createFormPage = formPage{
	Heading: "Create Invoice",
	Action:  ListingPath + "/create",
	Submit:  "Create Invoice",
}

func editFormPage(id string) formPage {
	return formPage{
		Heading: "Edit Invoice",
		Action:  ListingPath + "/" + id + "/edit",
		Submit:  "Save Changes",
	}
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, page formPage, values formValues, state *State, status int) {
	custs, err := h.customers.List(r.Context())
	if err != nil {
		h.logger.Error("list customers failed", slog.Any("error", err))
	}

	h.render(w, r, "pages/invoice_form.html", map[string]any{
		"Heading":   page.Heading,
		"Action":    page.Action,
		"Submit":    page.Submit,
		"Customers": custs,
		"Form":      values,
		"State":     state,
	}, status)
}

func statusFor(state *State) int {
	if len(state.Errors) > 0 {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, template string, data map[string]any, status int) {
	viewData := view.TemplateData{
		Title:       "Invoices",
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.Render(w, template, viewData); err != nil {
		h.logger.Error("render template", slog.Any("error", err), slog.String("template", template))
	}
}
