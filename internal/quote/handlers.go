package quote

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/quoteflow/backoffice/internal/common"
	dbgen "github.com/quoteflow/backoffice/internal/db/gen"
	"github.com/quoteflow/backoffice/internal/promo"
)

// Handler exposes the quote endpoints.
type Handler struct {
	Service  *Service
	Validate *validator.Validate
}

type createItemRequest struct {
	ProductID   string   `json:"product_id" validate:"required,uuid4_rfc4122|uuid_rfc4122"`
	ProductName string   `json:"product_name" validate:"required"`
	SKU         string   `json:"sku" validate:"required"`
	UnitPriceHT string   `json:"unit_price_ht" validate:"required"`
	TaxRate     string   `json:"tax_rate" validate:"required"`
	Quantity    int32    `json:"quantity" validate:"required,gt=0"`
	CategoryIDs []string `json:"category_ids"`
}

type createRequest struct {
	ClientID       string              `json:"client_id" validate:"required,uuid4_rfc4122|uuid_rfc4122"`
	ClientSnapshot json.RawMessage     `json:"client_snapshot"`
	QuoteDate      string              `json:"quote_date"`
	ValidUntil     string              `json:"valid_until"`
	Items          []createItemRequest `json:"items" validate:"required,min=1,dive"`
}

type priceRequest struct {
	Code   string `json:"code"`
	UserID string `json:"user_id"`
}

type statusRequest struct {
	Status  string `json:"status" validate:"required"`
	Comment string `json:"comment"`
}

// Create opens a new draft quote.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid quote payload", err.Error())
		return
	}
	in, err := createInputFromRequest(req)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	detail, err := h.Service.Create(r.Context(), in)
	if err != nil {
		h.renderError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": detailResponse(detail)})
}

// Get returns one quote with its items.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.renderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": detailResponse(detail)})
}

// List returns a paginated quote listing, optionally filtered by status.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, 20)
	rows, total, err := h.Service.List(r.Context(), r.URL.Query().Get("status"), int32(perPage), int32((page-1)*perPage))
	if err != nil {
		h.renderError(w, err)
		return
	}
	response := make([]map[string]any, 0, len(rows))
	for _, q := range rows {
		response = append(response, quoteSummary(q))
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": response,
		"pagination": common.Pagination{
			Page:       page,
			PerPage:    perPage,
			TotalItems: int(total),
		},
	})
}

// History returns the quote's transition log.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.renderError(w, err)
		return
	}
	response := make([]map[string]any, 0, len(rows))
	for _, entry := range rows {
		item := map[string]any{
			"from":      entry.FromStatus,
			"to":        entry.ToStatus,
			"actor":     entry.Actor,
			"changedAt": entry.CreatedAt.Time,
		}
		if entry.Comment.Valid {
			item["comment"] = entry.Comment.String
		}
		response = append(response, item)
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": response})
}

// Price reprices the quote speculatively. Nothing is saved.
func (h *Handler) Price(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	result, totals, err := h.Service.Price(r.Context(), chi.URLParam(r, "id"), req.Code, req.UserID)
	if err != nil {
		h.renderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": pricingResponse(result, totals)})
}

// Finalize persists the priced totals and consumes code redemptions.
func (h *Handler) Finalize(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	detail, result, err := h.Service.Finalize(r.Context(), chi.URLParam(r, "id"), req.Code, req.UserID)
	if err != nil {
		h.renderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"quote":   detailResponse(detail),
			"pricing": result,
		},
	})
}

// ChangeStatus drives the lifecycle state machine.
func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid status payload", err.Error())
		return
	}
	ok, err := h.Service.ChangeStatus(r.Context(), chi.URLParam(r, "id"), Status(req.Status), ActorFromContext(r.Context()), req.Comment)
	if err != nil {
		h.renderError(w, err)
		return
	}
	if !ok {
		common.JSONError(w, http.StatusConflict, "INVALID_TRANSITION", "transition not allowed from current status", nil)
		return
	}
	detail, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.renderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": detailResponse(detail)})
}

// Convert turns an accepted quote into an order.
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	order, err := h.Service.ConvertToOrder(r.Context(), chi.URLParam(r, "id"), ActorFromContext(r.Context()))
	if err != nil {
		h.renderError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": map[string]any{
		"id":        common.UUIDString(order.ID),
		"number":    order.Number,
		"quoteId":   common.UUIDString(order.QuoteID),
		"totalTtc":  order.TotalTtc,
		"createdAt": order.CreatedAt.Time,
	}})
}

func (h *Handler) renderError(w http.ResponseWriter, err error) {
	common.RenderError(w, classifyError(err))
}

// classifyError attaches the wire code and status to the domain
// sentinels so every handler renders failures the same way.
func classifyError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return common.NotFoundError("NOT_FOUND", ErrNotFound)
	case errors.Is(err, ErrNoItems):
		return common.BadRequestError("BAD_REQUEST", err)
	case errors.Is(err, ErrNotEditable):
		return common.ConflictError("NOT_EDITABLE", err)
	case errors.Is(err, ErrNotConvertible):
		return common.ConflictError("NOT_CONVERTIBLE", err)
	case errors.Is(err, ErrDuplicateConversion):
		return common.ConflictError("ALREADY_CONVERTED", err)
	case errors.Is(err, promo.ErrLimitExceeded):
		return common.ConflictError("LIMIT_EXCEEDED", err)
	default:
		return err
	}
}

func createInputFromRequest(req createRequest) (CreateInput, error) {
	in := CreateInput{
		ClientID:       req.ClientID,
		ClientSnapshot: req.ClientSnapshot,
	}
	if req.QuoteDate != "" {
		d, err := time.Parse("2006-01-02", req.QuoteDate)
		if err != nil {
			return CreateInput{}, errors.New("quote_date must be YYYY-MM-DD")
		}
		in.QuoteDate = d
	}
	if req.ValidUntil != "" {
		d, err := time.Parse("2006-01-02", req.ValidUntil)
		if err != nil {
			return CreateInput{}, errors.New("valid_until must be YYYY-MM-DD")
		}
		in.ValidUntil = d
	}
	for _, item := range req.Items {
		price, err := decimal.NewFromString(item.UnitPriceHT)
		if err != nil {
			return CreateInput{}, errors.New("unit_price_ht must be a decimal string")
		}
		rate, err := decimal.NewFromString(item.TaxRate)
		if err != nil {
			return CreateInput{}, errors.New("tax_rate must be a decimal string")
		}
		in.Items = append(in.Items, CreateItemInput{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			SKU:         item.SKU,
			UnitPriceHT: price,
			TaxRate:     rate,
			Quantity:    item.Quantity,
			CategoryIDs: item.CategoryIDs,
		})
	}
	return in, nil
}

func quoteSummary(q dbgen.Quote) map[string]any {
	return map[string]any{
		"id":            common.UUIDString(q.ID),
		"number":        q.Number,
		"clientId":      common.UUIDString(q.ClientID),
		"status":        q.Status,
		"quoteDate":     q.QuoteDate.Time.Format("2006-01-02"),
		"validUntil":    q.ValidUntil.Time.Format("2006-01-02"),
		"subtotalHt":    q.SubtotalHt,
		"taxAmount":     q.TaxAmount,
		"totalTtc":      q.TotalTtc,
		"discountTotal": q.DiscountTotal,
		"createdAt":     q.CreatedAt.Time,
	}
}

func detailResponse(d Detail) map[string]any {
	quote := quoteSummary(d.Quote)
	quote["clientSnapshot"] = json.RawMessage(d.Quote.ClientSnapshot)
	quote["appliedPromotions"] = json.RawMessage(d.Quote.AppliedPromotions)

	items := make([]map[string]any, 0, len(d.Items))
	for _, it := range d.Items {
		categories := make([]string, 0, len(it.CategoryIds))
		for _, cid := range it.CategoryIds {
			categories = append(categories, common.UUIDString(cid))
		}
		items = append(items, map[string]any{
			"id":             common.UUIDString(it.ID),
			"productId":      common.UUIDString(it.ProductID),
			"productName":    it.ProductName,
			"sku":            it.Sku,
			"unitPriceHt":    it.UnitPriceHt,
			"taxRate":        it.TaxRate,
			"quantity":       it.Quantity,
			"lineSubtotalHt": it.LineSubtotalHt,
			"lineTax":        it.LineTax,
			"lineTotalTtc":   it.LineTotalTtc,
			"categoryIds":    categories,
		})
	}
	quote["items"] = items
	return quote
}

func pricingResponse(result promo.PricingResult, totals Totals) map[string]any {
	return map[string]any{
		"pricing": result,
		"totals":  totals,
	}
}
