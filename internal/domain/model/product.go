package model

type ProductType string

const (
	TypeSimple    ProductType = "simple"
	TypeVariable  ProductType = "variable"
	TypeVariation ProductType = "variation"
)

const (
	StatusPublish = "publish"
	StatusDraft   = "draft"
)

const (
	StockInStock    = "instock"
	StockOutOfStock = "outofstock"
)

type Product struct {
	ID            int64
	SKU           string
	Name          string
	Type          ProductType
	Status        string
	ManageStock   bool
	StockQuantity int
	ParentID      int64
}

func (p *Product) IsType(t ProductType) bool {
	return p != nil && p.Type == t
}

// StockStatus maps a quantity to the storefront availability flag.
func StockStatus(qty int) string {
	if qty > 0 {
		return StockInStock
	}
	return StockOutOfStock
}

// ClampStock floors wire-level float stock values to the non-negative
// integer representation used everywhere locally.
func ClampStock(stock float64) int {
	if stock < 0 {
		return 0
	}
	return int(stock)
}
