package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"decor-funnel/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// DefaultCatalogID names the catalog row served to visitors.
const DefaultCatalogID = "main"

// CatalogLoader serves the catalog document stored as JSONB in the catalogs table.
type CatalogLoader struct {
	pool *pgxpool.Pool
	id   string
}

func NewCatalogLoader(pool *pgxpool.Pool, catalogID string) *CatalogLoader {
	if catalogID == "" {
		catalogID = DefaultCatalogID
	}
	return &CatalogLoader{pool: pool, id: catalogID}
}

func (l *CatalogLoader) Catalog(ctx context.Context) (domain.Catalog, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM catalogs WHERE id=$1`, l.id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Catalog{}, fmt.Errorf("catalog %q not seeded", l.id)
	}
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("load catalog: %w", err)
	}
	var cat domain.Catalog
	if err := json.Unmarshal(raw, &cat); err != nil {
		return domain.Catalog{}, fmt.Errorf("unmarshal catalog: %w", err)
	}
	return cat, nil
}

// SaveCatalog upserts the catalog document.
func (l *CatalogLoader) SaveCatalog(ctx context.Context, cat domain.Catalog) error {
	data, err := json.Marshal(cat)
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	_, err = l.pool.Exec(ctx, `
		INSERT INTO catalogs (id, data) VALUES ($1, $2::jsonb)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`, l.id, string(data))
	if err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	return nil
}
