package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"inventory-sync/internal/domain/model"
)

// MysqlStore is the Store implementation over the product schema:
// products, parent_attributes, variation_attributes,
// variation_attribute_meta and attribute_terms.
type MysqlStore struct {
	db *sql.DB
}

func NewMysqlStore(db *sql.DB) *MysqlStore {
	return &MysqlStore{db: db}
}

const productColumns = "id, sku, name, type, status, manage_stock, stock_quantity, parent_id"

func scanProduct(row interface{ Scan(...any) error }) (*model.Product, error) {
	var p model.Product
	var sku, name, status sql.NullString
	var parentID sql.NullInt64
	if err := row.Scan(&p.ID, &sku, &name, &p.Type, &status, &p.ManageStock, &p.StockQuantity, &parentID); err != nil {
		return nil, err
	}
	p.SKU = sku.String
	p.Name = name.String
	p.Status = status.String
	p.ParentID = parentID.Int64
	return &p, nil
}

func (s *MysqlStore) ProductBySKU(ctx context.Context, sku string) (*model.Product, error) {
	// Duplicate SKUs are not deduplicated by the schema; the lowest id
	// wins, the rest are unreachable through this lookup.
	row := s.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE sku = ? ORDER BY id LIMIT 1", sku)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: product by sku %q: %w", sku, err)
	}
	return p, nil
}

func (s *MysqlStore) ProductByID(ctx context.Context, id int64) (*model.Product, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = ?", id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: product by id %d: %w", id, err)
	}
	return p, nil
}

func (s *MysqlStore) queryProducts(ctx context.Context, query string, args ...any) ([]*model.Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *MysqlStore) VariableParents(ctx context.Context) ([]*model.Product, error) {
	products, err := s.queryProducts(ctx,
		"SELECT "+productColumns+" FROM products WHERE type = 'variable' AND status = 'publish' ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("catalog: variable parents: %w", err)
	}
	return products, nil
}

func (s *MysqlStore) Children(ctx context.Context, parentID int64) ([]*model.Product, error) {
	products, err := s.queryProducts(ctx,
		"SELECT "+productColumns+" FROM products WHERE type = 'variation' AND parent_id = ? ORDER BY id", parentID)
	if err != nil {
		return nil, fmt.Errorf("catalog: children of %d: %w", parentID, err)
	}
	return products, nil
}

func (s *MysqlStore) StockManaged(ctx context.Context) ([]*model.Product, error) {
	products, err := s.queryProducts(ctx,
		"SELECT "+productColumns+" FROM products WHERE manage_stock = 1 AND sku <> '' AND status = 'publish' ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("catalog: stock managed products: %w", err)
	}
	return products, nil
}

func (s *MysqlStore) ParentAttributes(ctx context.Context, parentID int64) ([]AttributeDomain, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pa.attr_key, va.attr_value
		FROM parent_attributes pa
		JOIN products v ON v.parent_id = pa.parent_id AND v.type = 'variation'
		LEFT JOIN variation_attributes va ON va.variation_id = v.id AND va.attr_key = pa.attr_key
		WHERE pa.parent_id = ?
		ORDER BY pa.position, v.id`, parentID)
	if err != nil {
		return nil, fmt.Errorf("catalog: parent attributes of %d: %w", parentID, err)
	}
	defer rows.Close()

	var domains []AttributeDomain
	index := make(map[string]int)
	seen := make(map[string]map[string]struct{})
	for rows.Next() {
		var key string
		var value sql.NullString
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		i, ok := index[key]
		if !ok {
			i = len(domains)
			index[key] = i
			domains = append(domains, AttributeDomain{Key: key})
			seen[key] = make(map[string]struct{})
		}
		if !value.Valid || value.String == "" {
			continue
		}
		if _, dup := seen[key][value.String]; dup {
			continue
		}
		seen[key][value.String] = struct{}{}
		domains[i].Values = append(domains[i].Values, value.String)
	}
	return domains, rows.Err()
}

func (s *MysqlStore) mapQuery(ctx context.Context, query string, args ...any) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

func (s *MysqlStore) VariationAttributes(ctx context.Context, variationID int64) (map[string]string, error) {
	m, err := s.mapQuery(ctx,
		"SELECT attr_key, attr_value FROM variation_attributes WHERE variation_id = ?", variationID)
	if err != nil {
		return nil, fmt.Errorf("catalog: variation attributes of %d: %w", variationID, err)
	}
	return m, nil
}

func (s *MysqlStore) AttributeMeta(ctx context.Context, variationID int64) (map[string]string, error) {
	m, err := s.mapQuery(ctx,
		"SELECT meta_key, meta_value FROM variation_attribute_meta WHERE variation_id = ? AND meta_key LIKE 'attribute\\_%'", variationID)
	if err != nil {
		return nil, fmt.Errorf("catalog: attribute meta of %d: %w", variationID, err)
	}
	return m, nil
}

func (s *MysqlStore) AllVariationAttributeValues(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT attr_value FROM variation_attributes
		UNION
		SELECT DISTINCT meta_value FROM variation_attribute_meta WHERE meta_key LIKE 'attribute\_%'`)
	if err != nil {
		return nil, fmt.Errorf("catalog: all variation attribute values: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *MysqlStore) TermName(ctx context.Context, taxonomy, slug string) (string, bool, error) {
	var name string
	err := s.db.QueryRowContext(ctx,
		"SELECT name FROM attribute_terms WHERE taxonomy = ? AND slug = ?", taxonomy, slug).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("catalog: term %s/%s: %w", taxonomy, slug, err)
	}
	return name, true, nil
}

func (s *MysqlStore) SetStock(ctx context.Context, id int64, qty int, stockStatus string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE products SET stock_quantity = ?, stock_status = ? WHERE id = ?", qty, stockStatus, id)
	if err != nil {
		return fmt.Errorf("catalog: set stock of %d: %w", id, err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		if _, err := s.ProductByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *MysqlStore) SetManageStock(ctx context.Context, id int64, manage bool) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE products SET manage_stock = ? WHERE id = ?", manage, id)
	if err != nil {
		return fmt.Errorf("catalog: set manage stock of %d: %w", id, err)
	}
	return nil
}

func (s *MysqlStore) CreateSimple(ctx context.Context, p *model.Product) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO products (sku, name, type, status, manage_stock, stock_quantity, stock_status, parent_id)
		VALUES (?, ?, 'simple', ?, ?, ?, ?, 0)`,
		p.SKU, p.Name, p.Status, p.ManageStock, p.StockQuantity, model.StockStatus(p.StockQuantity))
	if err != nil {
		return 0, fmt.Errorf("catalog: create simple %q: %w", p.SKU, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("catalog: create simple %q: %w", p.SKU, err)
	}
	return id, nil
}
