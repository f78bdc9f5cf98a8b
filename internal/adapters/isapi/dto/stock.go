package dto

// Result status values shared by both sides of the protocol.
const (
	StatusUpdated                     = "updated"
	StatusCreatedPlaceholder          = "created_simple_placeholder"
	StatusCreatedVariationPlaceholder = "created_simple_placeholder_for_variation"
	StatusFailedVariationPlaceholder  = "failed_to_create_variation_placeholder"
	StatusWrongParent                 = "sku_found_wrong_parent"
	StatusNotFound                    = "not_found"
	StatusFailed                      = "failed"
)

// UpdateStockRequest is the push payload. Stock is a pointer so "absent"
// and "zero" stay distinguishable; floats are accepted on the wire and
// floored on receipt. IsNew is set by the orchestrator after the
// existence probe, never by local knowledge.
type UpdateStockRequest struct {
	SKU        string           `json:"sku"`
	Stock      *float64         `json:"stock,omitempty"`
	Variations []VariationStock `json:"variations,omitempty"`
	IsNew      bool             `json:"is_new"`
}

type VariationStock struct {
	VariationSKU string   `json:"variation_sku"`
	Stock        *float64 `json:"stock"`
}

type ItemResult struct {
	SKU     string   `json:"sku"`
	Stock   *float64 `json:"stock,omitempty"`
	Status  string   `json:"status"`
	Message string   `json:"message,omitempty"`
}

type UpdateStockResponse struct {
	OK           bool         `json:"ok,omitempty"`
	Results      []ItemResult `json:"results,omitempty"`
	MainSKU      string       `json:"main_sku,omitempty"`
	ParentStatus string       `json:"parent_status,omitempty"`
	SKU          string       `json:"sku,omitempty"`
	ProductID    int64        `json:"product_id,omitempty"`
	Stock        *float64     `json:"stock,omitempty"`
	Status       string       `json:"status,omitempty"`
	Error        string       `json:"error,omitempty"`
}

// VariationSnapshot is one child row of a get-product-stock response.
type VariationSnapshot struct {
	VariationID  int64  `json:"variation_id"`
	VariationSKU string `json:"variation_sku"`
	Stock        *int   `json:"stock"`
}

// StockSnapshot is the get-product-stock response body. The orchestrator
// only cares about the status code, but the endpoint returns the full
// snapshot for manual inspection.
type StockSnapshot struct {
	ProductID  int64               `json:"product_id"`
	SKU        string              `json:"sku"`
	Type       string              `json:"type"`
	Stock      *int                `json:"stock,omitempty"`
	Variations []VariationSnapshot `json:"variations,omitempty"`
	Error      string              `json:"error,omitempty"`
}
