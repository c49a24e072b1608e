// Package order exposes the read-only order surface. Orders are created
// exclusively by quote conversion and are immutable afterwards.
package order

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/quoteflow/backoffice/internal/common"
	dbgen "github.com/quoteflow/backoffice/internal/db/gen"
)

type Handler struct {
	Q *dbgen.Queries
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "order queries not configured", nil)
		return
	}
	page, perPage := common.ParsePagination(r, 20)
	offset := int32((page - 1) * perPage)
	total, err := h.Q.CountOrders(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to count orders", nil)
		return
	}
	orders, err := h.Q.ListOrders(r.Context(), dbgen.ListOrdersParams{Limit: int32(perPage), Offset: offset})
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to list orders", nil)
		return
	}
	response := make([]map[string]any, 0, len(orders))
	for _, ord := range orders {
		response = append(response, map[string]any{
			"id":            common.UUIDString(ord.ID),
			"number":        ord.Number,
			"quoteId":       common.UUIDString(ord.QuoteID),
			"clientId":      common.UUIDString(ord.ClientID),
			"subtotalHt":    ord.SubtotalHt,
			"taxAmount":     ord.TaxAmount,
			"totalTtc":      ord.TotalTtc,
			"discountTotal": ord.DiscountTotal,
			"createdAt":     ord.CreatedAt.Time,
		})
	}
	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	common.JSON(w, http.StatusOK, map[string]any{
		"data": response,
		"pagination": common.Pagination{
			Page:       page,
			PerPage:    perPage,
			TotalItems: int(total),
		},
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "order queries not configured", nil)
		return
	}
	oID, err := common.ToUUID(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid order id", nil)
		return
	}
	ord, err := h.Q.GetOrder(r.Context(), oID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load order", nil)
		return
	}
	items, err := h.Q.ListOrderItemsByOrder(r.Context(), ord.ID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load order items", nil)
		return
	}
	responseItems := make([]map[string]any, 0, len(items))
	for _, it := range items {
		responseItems = append(responseItems, map[string]any{
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
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"id":                common.UUIDString(ord.ID),
		"number":            ord.Number,
		"quoteId":           common.UUIDString(ord.QuoteID),
		"clientId":          common.UUIDString(ord.ClientID),
		"clientSnapshot":    json.RawMessage(ord.ClientSnapshot),
		"subtotalHt":        ord.SubtotalHt,
		"taxAmount":         ord.TaxAmount,
		"totalTtc":          ord.TotalTtc,
		"discountTotal":     ord.DiscountTotal,
		"appliedPromotions": json.RawMessage(ord.AppliedPromotions),
		"createdAt":         ord.CreatedAt.Time,
		"items":             responseItems,
	}})
}
