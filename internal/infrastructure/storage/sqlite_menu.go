package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/yourusername/prana-whatsapp-bot/internal/domain/entity"
	"github.com/yourusername/prana-whatsapp-bot/internal/domain/repository"
)

type sqliteMenuRepository struct {
	db *sql.DB
}

// NewSQLiteMenuRepository SQLite asosidagi menu katalogi
func NewSQLiteMenuRepository(dbPath string) (repository.MenuRepository, error) {
	if dbPath == "" {
		return nil, errors.New("menu db path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := createMenuSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteMenuRepository{db: db}, nil
}

func createMenuSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS menu_items (
	name TEXT PRIMARY KEY COLLATE NOCASE,
	price REAL NOT NULL,
	category TEXT NOT NULL,
	ingredients TEXT NOT NULL DEFAULT '[]',
	description TEXT NOT NULL DEFAULT '',
	available INTEGER NOT NULL DEFAULT 1,
	position INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_menu_items_position ON menu_items (position);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create menu schema: %w", err)
	}
	return nil
}

// ReplaceAll menyuni bitta tranzaksiyada almashtirish
func (s *sqliteMenuRepository) ReplaceAll(ctx context.Context, items []entity.MenuItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM menu_items`); err != nil {
		tx.Rollback()
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO menu_items (name, price, category, ingredients, description, available, position) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i, item := range items {
		ingredients, err := json.Marshal([]string(item.Ingredients))
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("encode ingredients for %q: %w", item.Name, err)
		}
		if _, err := stmt.ExecContext(ctx, item.Name, item.Price, item.Category, string(ingredients), item.Description, item.Available, i); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert %q: %w", item.Name, err)
		}
	}

	return tx.Commit()
}

// GetAll barcha mahsulotlarni tartib bo'yicha olish
func (s *sqliteMenuRepository) GetAll(ctx context.Context) ([]entity.MenuItem, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, price, category, ingredients, description, available FROM menu_items ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []entity.MenuItem
	for rows.Next() {
		var item entity.MenuItem
		var ingredients string
		if err := rows.Scan(&item.Name, &item.Price, &item.Category, &ingredients, &item.Description, &item.Available); err != nil {
			return nil, err
		}
		var list []string
		if err := json.Unmarshal([]byte(ingredients), &list); err != nil {
			return nil, fmt.Errorf("decode ingredients for %q: %w", item.Name, err)
		}
		item.Ingredients = list
		items = append(items, item)
	}

	return items, rows.Err()
}

// Close bazani yopish
func (s *sqliteMenuRepository) Close() error {
	return s.db.Close()
}
