package promo

import (
	"encoding/json"
	"net/http"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quoteflow/backoffice/internal/common"
)

// Handler exposes the promotion preview endpoint.
type Handler struct {
	Service  *Service
	Validate *validator.Validate
}

type previewLine struct {
	ProductID   string   `json:"product_id" validate:"required,uuid4_rfc4122|uuid_rfc4122"`
	SKU         string   `json:"sku"`
	CategoryIDs []string `json:"category_ids"`
	Quantity    int32    `json:"quantity" validate:"required,gt=0"`
	UnitPriceHT string   `json:"unit_price_ht" validate:"required"`
}

type previewRequest struct {
	Code   string        `json:"code"`
	UserID string        `json:"user_id"`
	Lines  []previewLine `json:"lines" validate:"required,min=1,dive"`
}

// Preview evaluates the promotion pipeline against an ad-hoc context
// without touching any quote or consuming any redemption.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "promotion service not configured", nil)
		return
	}
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid preview payload", err.Error())
			return
		}
	}

	pc, err := contextFromRequest(req)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	result, err := h.Service.Price(r.Context(), pc)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "pricing failed", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": result})
}

func contextFromRequest(req previewRequest) (PricingContext, error) {
	pc := PricingContext{SuppliedCode: req.Code}
	if req.UserID != "" {
		id, err := uuid.Parse(req.UserID)
		if err != nil {
			return PricingContext{}, err
		}
		pc.UserID = &id
	}
	subtotal := decimal.Zero
	for _, in := range req.Lines {
		productID, err := uuid.Parse(in.ProductID)
		if err != nil {
			return PricingContext{}, err
		}
		price, err := decimal.NewFromString(in.UnitPriceHT)
		if err != nil {
			return PricingContext{}, err
		}
		line := Line{
			ProductID: productID,
			SKU:       in.SKU,
			Quantity:  in.Quantity,
			UnitPrice: price,
		}
		for _, raw := range in.CategoryIDs {
			catID, err := uuid.Parse(raw)
			if err != nil {
				return PricingContext{}, err
			}
			line.CategoryIDs = append(line.CategoryIDs, catID)
		}
		pc.Lines = append(pc.Lines, line)
		pc.TotalQuantity += in.Quantity
		subtotal = subtotal.Add(line.Subtotal())
	}
	pc.Subtotal = subtotal
	return pc, nil
}
