package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	shared "github.com/charadev96/officedesk/internal/shared/domain"
	"github.com/charadev96/officedesk/internal/shared/infra"
)

type BunStore struct {
	db       *bun.DB
	txRunner shared.TransactionRunner
}

func NewBunStore(ctx context.Context, db *bun.DB) (*BunStore, error) {
	r := &BunStore{
		db:       db,
		txRunner: &infra.TxRunner{DB: db},
	}
	tx := infra.Conn(ctx, r.db)
	_, err := tx.NewCreateTable().
		Model((*kvEntry)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return r, fmt.Errorf("failed to create store: %w", err)
	}
	return r, nil
}

func (r *BunStore) Get(ctx context.Context, key string) (string, error) {
	tx := infra.Conn(ctx, r.db)
	e := new(kvEntry)
	err := tx.NewSelect().
		Model(e).
		Where("name = ?", key).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = shared.ErrNotExist
		}
		return "", fmt.Errorf("failed to get value '%s': %w", key, err)
	}
	return e.Value, nil
}

func (r *BunStore) Set(ctx context.Context, key, value string) error {
	return r.txRunner.Exec(ctx, func(ctx context.Context) error {
		if err := r.Delete(ctx, key); err != nil {
			return err
		}
		tx := infra.Conn(ctx, r.db)
		e := &kvEntry{
			Name:      key,
			Value:     value,
			UpdatedAt: time.Now(),
		}
		_, err := tx.NewInsert().
			Model(e).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to save value '%s': %w", key, err)
		}
		return nil
	})
}

func (r *BunStore) Delete(ctx context.Context, key string) error {
	tx := infra.Conn(ctx, r.db)
	e := &kvEntry{Name: key}
	_, err := tx.NewDelete().
		Model(e).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete value '%s': %w", key, err)
	}
	return nil
}

type kvEntry struct {
	bun.BaseModel `bun:"table:kv_entries"`

	Name      string `bun:",pk"`
	Value     string `bun:",notnull"`
	UpdatedAt time.Time
}
