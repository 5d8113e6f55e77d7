package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createStore = `
INSERT INTO stores (id, name, admin_key_hash, logo, subtitle)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, name, admin_key_hash, logo, subtitle, is_active, created_at, updated_at
`

type CreateStoreParams struct {
	ID           string
	Name         string
	AdminKeyHash string
	Logo         pgtype.Text
	Subtitle     pgtype.Text
}

func (q *Queries) CreateStore(ctx context.Context, arg CreateStoreParams) (Store, error) {
	row := q.db.QueryRow(ctx, createStore,
		arg.ID, arg.Name, arg.AdminKeyHash, arg.Logo, arg.Subtitle)
	var s Store
	err := row.Scan(&s.ID, &s.Name, &s.AdminKeyHash, &s.Logo, &s.Subtitle,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

const getStore = `
SELECT id, name, admin_key_hash, logo, subtitle, is_active, created_at, updated_at
FROM stores
WHERE id = $1
`

func (q *Queries) GetStore(ctx context.Context, id string) (Store, error) {
	row := q.db.QueryRow(ctx, getStore, id)
	var s Store
	err := row.Scan(&s.ID, &s.Name, &s.AdminKeyHash, &s.Logo, &s.Subtitle,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

const listStores = `
SELECT id, name, admin_key_hash, logo, subtitle, is_active, created_at, updated_at
FROM stores
ORDER BY created_at
`

func (q *Queries) ListStores(ctx context.Context) ([]Store, error) {
	rows, err := q.db.Query(ctx, listStores)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Store
	for rows.Next() {
		var s Store
		if err := rows.Scan(&s.ID, &s.Name, &s.AdminKeyHash, &s.Logo, &s.Subtitle,
			&s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

const updateStore = `
UPDATE stores
SET name = $2, logo = $3, subtitle = $4, is_active = $5, updated_at = now()
WHERE id = $1
RETURNING id, name, admin_key_hash, logo, subtitle, is_active, created_at, updated_at
`

type UpdateStoreParams struct {
	ID       string
	Name     string
	Logo     pgtype.Text
	Subtitle pgtype.Text
	IsActive bool
}

func (q *Queries) UpdateStore(ctx context.Context, arg UpdateStoreParams) (Store, error) {
	row := q.db.QueryRow(ctx, updateStore,
		arg.ID, arg.Name, arg.Logo, arg.Subtitle, arg.IsActive)
	var s Store
	err := row.Scan(&s.ID, &s.Name, &s.AdminKeyHash, &s.Logo, &s.Subtitle,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

const updateStoreAdminKey = `
UPDATE stores
SET admin_key_hash = $2, updated_at = now()
WHERE id = $1
`

type UpdateStoreAdminKeyParams struct {
	ID           string
	AdminKeyHash string
}

func (q *Queries) UpdateStoreAdminKey(ctx context.Context, arg UpdateStoreAdminKeyParams) error {
	_, err := q.db.Exec(ctx, updateStoreAdminKey, arg.ID, arg.AdminKeyHash)
	return err
}

// DeleteStore removes a store; categories, menu items, orders and daily
// sales cascade at the schema level so no child record survives.
const deleteStore = `
DELETE FROM stores
WHERE id = $1
`

func (q *Queries) DeleteStore(ctx context.Context, id string) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteStore, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
