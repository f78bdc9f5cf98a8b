package matrix

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"inventory-sync/internal/catalog"
	"inventory-sync/internal/domain/model"
)

// PerPage is the fixed admin table page size.
const PerPage = 40

// colorKeyParentName is the sentinel color key meaning "group under the
// parent's name" when a parent defines only the power attribute.
const colorKeyParentName = "_parent_name"

type Filters struct {
	Search string
	Letter string
	Page   int
	// All bypasses pagination and the per-request cache (export path).
	All bool
}

type Cell struct {
	VariationID int64
	Stock       int
}

// ColorGroup is one matrix row: every variation of one (parent, color)
// pair spread over the power columns.
type ColorGroup struct {
	SeriesName   string
	ColorName    string
	TotalStock   int
	CellsByPower map[string]Cell
}

type Matrix struct {
	// Powers holds the detected axis values in column order; PowerSlugs
	// the corresponding column keys.
	Powers     []string
	PowerSlugs []string
	Rows       []ColorGroup
	TotalRows  int
	GrandTotal int
	Page       int
	PerPage    int
}

// TableSource is what the generic table and export layers consume; they
// know nothing about power axes or color grouping.
type TableSource interface {
	Rows(ctx context.Context, f Filters) ([]ColorGroup, int, error)
}

// Aggregator builds the color × power stock matrix from the catalog.
// Instances are request-scoped; the computed base data is cached for the
// lifetime of the instance so one admin render can reuse it.
type Aggregator struct {
	store catalog.Store
	diag  Diagnostics

	cached *baseData
}

type baseData struct {
	powers     []string
	powerSlugs []string
	groups     []ColorGroup
	grandTotal int
}

func NewAggregator(store catalog.Store, diag Diagnostics) *Aggregator {
	if diag == nil {
		diag = NopDiagnostics()
	}
	return &Aggregator{store: store, diag: diag}
}

// Rows implements TableSource.
func (a *Aggregator) Rows(ctx context.Context, f Filters) ([]ColorGroup, int, error) {
	m, err := a.Build(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return m.Rows, m.TotalRows, nil
}

func (a *Aggregator) Build(ctx context.Context, f Filters) (*Matrix, error) {
	base, err := a.baseData(ctx, f.All)
	if err != nil {
		return nil, err
	}

	rows := filterRows(base.groups, f)
	total := len(rows)

	page := f.Page
	if page < 1 {
		page = 1
	}
	if !f.All {
		start := (page - 1) * PerPage
		if start >= len(rows) {
			rows = nil
		} else {
			end := start + PerPage
			if end > len(rows) {
				end = len(rows)
			}
			rows = rows[start:end]
		}
	}

	return &Matrix{
		Powers:     base.powers,
		PowerSlugs: base.powerSlugs,
		Rows:       rows,
		TotalRows:  total,
		GrandTotal: base.grandTotal,
		Page:       page,
		PerPage:    PerPage,
	}, nil
}

func (a *Aggregator) baseData(ctx context.Context, bypassCache bool) (*baseData, error) {
	if !bypassCache && a.cached != nil {
		return a.cached, nil
	}

	values, err := a.store.AllVariationAttributeValues(ctx)
	if err != nil {
		return nil, err
	}
	powers := DetectPowerAxis(values)
	powerSlugs := make([]string, len(powers))
	axis := make(map[string]struct{}, len(powers))
	for i, p := range powers {
		powerSlugs[i] = Slugify(p)
		axis[p] = struct{}{}
	}

	parents, err := a.store.VariableParents(ctx)
	if err != nil {
		return nil, err
	}

	base := &baseData{powers: powers, powerSlugs: powerSlugs}
	for _, parent := range parents {
		groups, parentTotal, err := a.groupParent(ctx, parent, axis)
		if err != nil {
			return nil, err
		}
		if len(groups) == 0 {
			continue
		}
		base.groups = append(base.groups, groups...)
		base.grandTotal += parentTotal
	}

	sort.SliceStable(base.groups, func(i, j int) bool {
		a := strings.ToLower(base.groups[i].SeriesName + base.groups[i].ColorName)
		b := strings.ToLower(base.groups[j].SeriesName + base.groups[j].ColorName)
		return a < b
	})

	a.cached = base
	return base, nil
}

// groupParent applies the per-parent half of the algorithm: detect the
// power and color keys, then fold every eligible variation into color
// groups keyed by color slug.
func (a *Aggregator) groupParent(ctx context.Context, parent *model.Product, axis map[string]struct{}) ([]ColorGroup, int, error) {
	domains, err := a.store.ParentAttributes(ctx, parent.ID)
	if err != nil {
		return nil, 0, err
	}

	powerKey, colorKey := detectKeys(domains, axis)
	if powerKey == "" {
		a.diag.Observe(Event{Kind: EventParentSkipped, ParentID: parent.ID, Reason: "no power attribute detected"})
		return nil, 0, nil
	}
	a.diag.Observe(Event{Kind: EventPowerKeyDetected, ParentID: parent.ID, Key: powerKey})
	if colorKey == "" {
		colorKey = colorKeyParentName
		a.diag.Observe(Event{Kind: EventColorKeyFallback, ParentID: parent.ID})
	} else {
		a.diag.Observe(Event{Kind: EventColorKeyDetected, ParentID: parent.ID, Key: colorKey})
	}

	children, err := a.store.Children(ctx, parent.ID)
	if err != nil {
		return nil, 0, err
	}

	groups := make(map[string]*ColorGroup)
	var order []string
	total := 0

	for _, variation := range children {
		if strings.TrimSpace(variation.SKU) == "" {
			a.diag.Observe(Event{Kind: EventVariationSkipped, ParentID: parent.ID, VariationID: variation.ID, Reason: "empty sku"})
			continue
		}
		if !variation.ManageStock {
			a.diag.Observe(Event{Kind: EventVariationSkipped, ParentID: parent.ID, VariationID: variation.ID, Reason: "stock management disabled"})
			continue
		}

		attrs, err := a.store.VariationAttributes(ctx, variation.ID)
		if err != nil {
			return nil, 0, err
		}

		powerValue, err := a.resolvePower(ctx, variation, powerKey, attrs)
		if err != nil {
			return nil, 0, err
		}
		powerValue, err = a.translateTerm(ctx, powerKey, powerValue)
		if err != nil {
			return nil, 0, err
		}

		colorValue, err := a.resolveColor(ctx, parent, colorKey, attrs)
		if err != nil {
			return nil, 0, err
		}

		powerSlug := Slugify(powerValue)
		if powerSlug == "" {
			a.diag.Observe(Event{Kind: EventVariationSkipped, ParentID: parent.ID, VariationID: variation.ID, Key: powerKey, Reason: "empty power value"})
			continue
		}
		colorSlug := Slugify(colorValue)

		group, ok := groups[colorSlug]
		if !ok {
			group = &ColorGroup{
				SeriesName:   parent.Name,
				ColorName:    colorValue,
				CellsByPower: make(map[string]Cell),
			}
			groups[colorSlug] = group
			order = append(order, colorSlug)
		}

		stock := variation.StockQuantity
		if stock < 0 {
			stock = 0
		}
		group.TotalStock += stock
		total += stock
		// Last write wins: duplicate SKUs landing in the same
		// (color, power) cell silently overwrite.
		group.CellsByPower[powerSlug] = Cell{VariationID: variation.ID, Stock: stock}
	}

	out := make([]ColorGroup, 0, len(order))
	for _, slug := range order {
		out = append(out, *groups[slug])
	}
	return out, total, nil
}

// detectKeys picks the first attribute whose values intersect the global
// axis as the power key, and the first remaining attribute as the color
// key. Intersection is string equality on the raw values.
func detectKeys(domains []catalog.AttributeDomain, axis map[string]struct{}) (powerKey, colorKey string) {
	for _, d := range domains {
		intersects := false
		for _, v := range d.Values {
			if _, ok := axis[v]; ok {
				intersects = true
				break
			}
		}
		if intersects && powerKey == "" {
			powerKey = d.Key
		} else if colorKey == "" {
			colorKey = d.Key
		}
	}
	return powerKey, colorKey
}

// resolvePower runs the ordered resolver stages; the first non-empty
// result wins. Stage three exists because variation rows in loosely
// maintained catalogs often miss the structured mapping.
func (a *Aggregator) resolvePower(ctx context.Context, variation *model.Product, powerKey string, attrs map[string]string) (string, error) {
	for _, stage := range powerStages(a.store, powerKey, attrs) {
		value, err := stage.resolve(ctx, variation.ID)
		if err != nil {
			return "", err
		}
		if value != "" {
			if stage.fallback {
				a.diag.Observe(Event{Kind: EventMetaFallbackUsed, ParentID: variation.ParentID, VariationID: variation.ID, Key: stage.name, Value: value})
			}
			return value, nil
		}
	}
	return "", nil
}

type resolverStage struct {
	name     string
	fallback bool
	resolve  func(ctx context.Context, variationID int64) (string, error)
}

// powerStages enumerates the resolution chain so each stage is
// independently testable.
func powerStages(store catalog.Store, powerKey string, attrs map[string]string) []resolverStage {
	return []resolverStage{
		{
			name: "attribute_map",
			resolve: func(context.Context, int64) (string, error) {
				return attrs[powerKey], nil
			},
		},
		{
			name:     "attribute_meta",
			fallback: true,
			resolve: func(ctx context.Context, variationID int64) (string, error) {
				meta, err := store.AttributeMeta(ctx, variationID)
				if err != nil {
					return "", err
				}
				return meta["attribute_"+powerKey], nil
			},
		},
		{
			name:     "any_attribute_meta",
			fallback: true,
			resolve: func(ctx context.Context, variationID int64) (string, error) {
				meta, err := store.AttributeMeta(ctx, variationID)
				if err != nil {
					return "", err
				}
				keys := make([]string, 0, len(meta))
				for k := range meta {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					if strings.HasPrefix(k, "attribute_") && meta[k] != "" {
						return meta[k], nil
					}
				}
				return "", nil
			},
		},
	}
}

func (a *Aggregator) resolveColor(ctx context.Context, parent *model.Product, colorKey string, attrs map[string]string) (string, error) {
	if colorKey == colorKeyParentName {
		return parent.Name, nil
	}
	value, err := a.translateTerm(ctx, colorKey, attrs[colorKey])
	if err != nil {
		return "", err
	}
	if value == "" {
		value = "N/A"
	}
	return value, nil
}

// translateTerm swaps a stored taxonomy slug for its display name when the
// attribute key is a taxonomy; non-taxonomy values pass through.
func (a *Aggregator) translateTerm(ctx context.Context, key, value string) (string, error) {
	if value == "" || key == "" {
		return value, nil
	}
	name, ok, err := a.store.TermName(ctx, key, value)
	if err != nil {
		return "", err
	}
	if ok {
		return name, nil
	}
	return value, nil
}

func filterRows(groups []ColorGroup, f Filters) []ColorGroup {
	rows := groups
	if search := strings.ToLower(strings.TrimSpace(f.Search)); search != "" {
		filtered := make([]ColorGroup, 0, len(rows))
		for _, g := range rows {
			haystack := strings.ToLower(g.SeriesName + " " + g.ColorName)
			if strings.Contains(haystack, search) {
				filtered = append(filtered, g)
			}
		}
		rows = filtered
	}

	if letter := strings.TrimSpace(f.Letter); letter != "" {
		filtered := make([]ColorGroup, 0, len(rows))
		for _, g := range rows {
			if matchesLetter(g.SeriesName, letter) {
				filtered = append(filtered, g)
			}
		}
		rows = filtered
	}
	return rows
}

// matchesLetter compares the first character of the series name; a digit
// filter matches any digit-initial row.
func matchesLetter(series, letter string) bool {
	series = strings.TrimSpace(series)
	if series == "" {
		return false
	}
	first := rune(series[0])
	want := rune(letter[0])
	if unicode.IsDigit(want) {
		return unicode.IsDigit(first)
	}
	return unicode.ToUpper(first) == unicode.ToUpper(want)
}
