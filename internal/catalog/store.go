package catalog

import (
	"context"
	"errors"

	"inventory-sync/internal/domain/model"
)

var ErrNotFound = errors.New("catalog: product not found")

// AttributeDomain is one attribute defined on a variable parent together
// with the set of values its variations use. Order of domains matters:
// axis detection picks the first matching key.
type AttributeDomain struct {
	Key    string
	Values []string
}

// Store is the product persistence backend. Products are owned by the
// store; everything in this module reads snapshots and issues point
// updates. Each write is its own atomic unit, there is no cross-record
// transaction.
type Store interface {
	ProductBySKU(ctx context.Context, sku string) (*model.Product, error)
	ProductByID(ctx context.Context, id int64) (*model.Product, error)

	// VariableParents lists published variable products.
	VariableParents(ctx context.Context) ([]*model.Product, error)
	// Children lists the variations of a variable parent.
	Children(ctx context.Context, parentID int64) ([]*model.Product, error)
	// StockManaged lists every product and variation with stock
	// management enabled and a non-empty SKU.
	StockManaged(ctx context.Context) ([]*model.Product, error)

	// ParentAttributes returns the attribute domains defined on a
	// variable parent, in definition order.
	ParentAttributes(ctx context.Context, parentID int64) ([]AttributeDomain, error)
	// VariationAttributes is the structured attributeKey -> value map of
	// one variation. Values may be slugs of taxonomy terms.
	VariationAttributes(ctx context.Context, variationID int64) (map[string]string, error)
	// AttributeMeta exposes the raw "attribute_<key>" meta rows of a
	// variation, for the cases where the structured map is incomplete.
	AttributeMeta(ctx context.Context, variationID int64) (map[string]string, error)
	// AllVariationAttributeValues returns every distinct attribute value
	// used by any variation in the catalog.
	AllVariationAttributeValues(ctx context.Context) ([]string, error)
	// TermName translates a taxonomy term slug to its display name.
	// ok is false when the key is not a taxonomy or the slug is unknown.
	TermName(ctx context.Context, taxonomy, slug string) (name string, ok bool, err error)

	SetStock(ctx context.Context, id int64, qty int, stockStatus string) error
	SetManageStock(ctx context.Context, id int64, manage bool) error
	// CreateSimple persists a new simple product and returns its id.
	CreateSimple(ctx context.Context, p *model.Product) (int64, error)
}
