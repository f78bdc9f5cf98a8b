package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"inventory-sync/internal/domain/model"
)

// MemoryStore is a mutex-guarded in-memory Store. It backs the test suites
// and serves as the catalog when no MySQL DSN is configured.
type MemoryStore struct {
	mu          sync.RWMutex
	products    map[int64]*model.Product
	bySKU       map[string]int64
	parentAttrs map[int64][]AttributeDomain
	varAttrs    map[int64]map[string]string
	varMeta     map[int64]map[string]string
	terms       map[string]map[string]string
	nextID      int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products:    make(map[int64]*model.Product),
		bySKU:       make(map[string]int64),
		parentAttrs: make(map[int64][]AttributeDomain),
		varAttrs:    make(map[int64]map[string]string),
		varMeta:     make(map[int64]map[string]string),
		terms:       make(map[string]map[string]string),
		nextID:      1,
	}
}

// AddProduct registers a product, assigning an id when none is set.
// Duplicate SKUs keep the first registration as the lookup winner.
func (s *MemoryStore) AddProduct(p *model.Product) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.nextID
	}
	if p.ID >= s.nextID {
		s.nextID = p.ID + 1
	}
	if p.Status == "" {
		p.Status = model.StatusPublish
	}
	cp := *p
	s.products[cp.ID] = &cp
	if cp.SKU != "" {
		if _, taken := s.bySKU[cp.SKU]; !taken {
			s.bySKU[cp.SKU] = cp.ID
		}
	}
	return cp.ID
}

func (s *MemoryStore) SetParentAttributes(parentID int64, domains []AttributeDomain) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parentAttrs[parentID] = domains
}

func (s *MemoryStore) SetVariationAttributes(variationID int64, attrs map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.varAttrs[variationID] = attrs
}

func (s *MemoryStore) SetAttributeMeta(variationID int64, meta map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.varMeta[variationID] = meta
}

func (s *MemoryStore) AddTerm(taxonomy, slug, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.terms[taxonomy] == nil {
		s.terms[taxonomy] = make(map[string]string)
	}
	s.terms[taxonomy][slug] = name
}

func (s *MemoryStore) ProductBySKU(_ context.Context, sku string) (*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.bySKU[sku]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s.products[id]
	return &cp, nil
}

func (s *MemoryStore) ProductByID(_ context.Context, id int64) (*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) VariableParents(_ context.Context) ([]*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Product
	for _, p := range s.products {
		if p.Type == model.TypeVariable && p.Status == model.StatusPublish {
			cp := *p
			out = append(out, &cp)
		}
	}
	sortByID(out)
	return out, nil
}

func (s *MemoryStore) Children(_ context.Context, parentID int64) ([]*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Product
	for _, p := range s.products {
		if p.Type == model.TypeVariation && p.ParentID == parentID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sortByID(out)
	return out, nil
}

func (s *MemoryStore) StockManaged(_ context.Context) ([]*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Product
	for _, p := range s.products {
		if p.ManageStock && strings.TrimSpace(p.SKU) != "" && p.Status == model.StatusPublish {
			cp := *p
			out = append(out, &cp)
		}
	}
	sortByID(out)
	return out, nil
}

func (s *MemoryStore) ParentAttributes(_ context.Context, parentID int64) ([]AttributeDomain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.parentAttrs[parentID], nil
}

func (s *MemoryStore) VariationAttributes(_ context.Context, variationID int64) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.varAttrs[variationID]))
	for k, v := range s.varAttrs[variationID] {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryStore) AttributeMeta(_ context.Context, variationID int64) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.varMeta[variationID]))
	for k, v := range s.varMeta[variationID] {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryStore) AllVariationAttributeValues(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	var out []string
	collect := func(m map[string]string) {
		for _, v := range m {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	for id, p := range s.products {
		if p.Type != model.TypeVariation {
			continue
		}
		collect(s.varAttrs[id])
		collect(s.varMeta[id])
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemoryStore) TermName(_ context.Context, taxonomy, slug string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tax, ok := s.terms[taxonomy]
	if !ok {
		return "", false, nil
	}
	name, ok := tax[slug]
	return name, ok, nil
}

func (s *MemoryStore) SetStock(_ context.Context, id int64, qty int, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return ErrNotFound
	}
	p.StockQuantity = qty
	return nil
}

func (s *MemoryStore) SetManageStock(_ context.Context, id int64, manage bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return ErrNotFound
	}
	p.ManageStock = manage
	return nil
}

func (s *MemoryStore) CreateSimple(_ context.Context, p *model.Product) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	cp := *p
	cp.ID = id
	cp.Type = model.TypeSimple
	s.products[id] = &cp
	if cp.SKU != "" {
		if _, taken := s.bySKU[cp.SKU]; !taken {
			s.bySKU[cp.SKU] = id
		}
	}
	return id, nil
}

func sortByID(products []*model.Product) {
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
}
