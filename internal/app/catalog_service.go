package app

import (
	"context"
	"slices"
	"strings"

	"decor-funnel/internal/domain"
)

// CatalogProvider returns the current catalog document.
type CatalogProvider interface {
	Catalog(ctx context.Context) (domain.Catalog, error)
}

// CatalogService answers catalog browsing queries.
type CatalogService struct {
	provider CatalogProvider
}

func NewCatalogService(provider CatalogProvider) *CatalogService {
	return &CatalogService{provider: provider}
}

// Listing is a filtered view of the catalog with the vocabularies used to filter it.
type Listing struct {
	Items      []domain.CatalogItem `json:"items"`
	Total      int                  `json:"total"`
	Query      domain.CatalogQuery  `json:"query"`
	Categories []domain.Facet       `json:"categories"`
	Rooms      []domain.Facet       `json:"rooms"`
	Styles     []domain.Facet       `json:"styles"`
}

// Search filters items by style, room and category, then by a case-insensitive search over
// name, description and tags. Empty fields do not filter.
func (s *CatalogService) Search(ctx context.Context, q domain.CatalogQuery) (Listing, error) {
	cat, err := s.provider.Catalog(ctx)
	if err != nil {
		return Listing{}, err
	}
	items := make([]domain.CatalogItem, 0, len(cat.Items))
	for _, item := range cat.Items {
		if Matches(item, q) {
			items = append(items, item)
		}
	}
	return Listing{
		Items:      items,
		Total:      len(cat.Items),
		Query:      q,
		Categories: cat.Categories,
		Rooms:      cat.Rooms,
		Styles:     cat.Styles,
	}, nil
}

// Item returns one catalog item.
func (s *CatalogService) Item(ctx context.Context, id string) (domain.CatalogItem, error) {
	cat, err := s.provider.Catalog(ctx)
	if err != nil {
		return domain.CatalogItem{}, err
	}
	for _, item := range cat.Items {
		if item.ID == id {
			return item, nil
		}
	}
	return domain.CatalogItem{}, domain.ErrCatalogItemNotFound
}

// Matches reports whether item passes every non-empty filter of q.
func Matches(item domain.CatalogItem, q domain.CatalogQuery) bool {
	if q.Style != "" && !slices.Contains(item.Styles, q.Style) {
		return false
	}
	if q.Room != "" && !slices.Contains(item.Rooms, q.Room) {
		return false
	}
	if q.Category != "" && item.Category != q.Category {
		return false
	}
	if q.Search == "" {
		return true
	}
	needle := strings.ToLower(q.Search)
	if strings.Contains(strings.ToLower(item.Name), needle) ||
		strings.Contains(strings.ToLower(item.Description), needle) {
		return true
	}
	return slices.ContainsFunc(item.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), needle)
	})
}
