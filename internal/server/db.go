package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/idilsaglam/liste/internal/model"
)

var (
	ErrNoSuchList        = errors.New("reference to list that doesn't exist")
	ErrNoSuchItem        = errors.New("reference to item that doesn't exist")
	ErrDuplicateListName = errors.New("can't create list with duplicate name")
)

// DB stores lists and items in sqlite.
type DB struct {
	db *sql.DB
}

// OpenDB opens (creating if needed) the database at path and migrates it.
func OpenDB(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)
	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error { return d.db.Close() }

func (d *DB) Lists(ctx context.Context) ([]model.List, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT id, name FROM lists ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query lists: %w", err)
	}
	defer rows.Close()
	out := []model.List{}
	for rows.Next() {
		var l model.List
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (d *DB) List(ctx context.Context, id model.ID) (model.List, error) {
	var l model.List
	err := d.db.QueryRowContext(ctx, `SELECT id, name FROM lists WHERE id = ?`, id).Scan(&l.ID, &l.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return l, fmt.Errorf("%w (id: %d)", ErrNoSuchList, id)
	}
	if err != nil {
		return l, fmt.Errorf("query list %d: %w", id, err)
	}
	return l, nil
}

func (d *DB) AllItems(ctx context.Context) ([]model.Item, error) {
	return d.items(ctx, `SELECT id, list_id, content FROM items ORDER BY id`)
}

// Items returns the items of one list. An unknown list is an error, an empty
// one is not.
func (d *DB) Items(ctx context.Context, listID model.ID) ([]model.Item, error) {
	if _, err := d.List(ctx, listID); err != nil {
		return nil, err
	}
	return d.items(ctx, `SELECT id, list_id, content FROM items WHERE list_id = ? ORDER BY id`, listID)
}

func (d *DB) items(ctx context.Context, query string, args ...any) ([]model.Item, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()
	out := []model.Item{}
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.ListID, &it.Content); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (d *DB) Item(ctx context.Context, id model.ID) (model.Item, error) {
	var it model.Item
	err := d.db.QueryRowContext(ctx, `SELECT id, list_id, content FROM items WHERE id = ?`, id).
		Scan(&it.ID, &it.ListID, &it.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return it, fmt.Errorf("%w (id: %d)", ErrNoSuchItem, id)
	}
	if err != nil {
		return it, fmt.Errorf("query item %d: %w", id, err)
	}
	return it, nil
}

func (d *DB) CreateList(ctx context.Context, name string) (model.List, error) {
	var l model.List
	err := d.db.QueryRowContext(ctx, `INSERT INTO lists (name) VALUES (?) RETURNING id, name`, name).
		Scan(&l.ID, &l.Name)
	if isConstraint(err, sqlite3.ErrConstraintUnique) {
		return l, fmt.Errorf("%w (name: '%s')", ErrDuplicateListName, name)
	}
	if err != nil {
		return l, fmt.Errorf("insert list: %w", err)
	}
	return l, nil
}

func (d *DB) RenameList(ctx context.Context, id model.ID, name string) (model.List, error) {
	var l model.List
	err := d.db.QueryRowContext(ctx, `UPDATE lists SET name = ? WHERE id = ? RETURNING id, name`, name, id).
		Scan(&l.ID, &l.Name)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return l, fmt.Errorf("%w (id: %d)", ErrNoSuchList, id)
	case isConstraint(err, sqlite3.ErrConstraintUnique):
		return l, fmt.Errorf("%w (name: '%s')", ErrDuplicateListName, name)
	case err != nil:
		return l, fmt.Errorf("rename list %d: %w", id, err)
	}
	return l, nil
}

// RemoveList deletes a list; its items go with it.
func (d *DB) RemoveList(ctx context.Context, id model.ID) (model.List, error) {
	var l model.List
	err := d.db.QueryRowContext(ctx, `DELETE FROM lists WHERE id = ? RETURNING id, name`, id).Scan(&l.ID, &l.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return l, fmt.Errorf("%w (id: %d)", ErrNoSuchList, id)
	}
	if err != nil {
		return l, fmt.Errorf("delete list %d: %w", id, err)
	}
	return l, nil
}

func (d *DB) CreateItem(ctx context.Context, listID model.ID, content string) (model.Item, error) {
	var it model.Item
	err := d.db.QueryRowContext(ctx,
		`INSERT INTO items (list_id, content) VALUES (?, ?) RETURNING id, list_id, content`, listID, content).
		Scan(&it.ID, &it.ListID, &it.Content)
	if isConstraint(err, sqlite3.ErrConstraintForeignKey) {
		return it, fmt.Errorf("%w (id: %d)", ErrNoSuchList, listID)
	}
	if err != nil {
		return it, fmt.Errorf("insert item: %w", err)
	}
	return it, nil
}

func (d *DB) EditItem(ctx context.Context, id model.ID, content string) (model.Item, error) {
	var it model.Item
	err := d.db.QueryRowContext(ctx,
		`UPDATE items SET content = ? WHERE id = ? RETURNING id, list_id, content`, content, id).
		Scan(&it.ID, &it.ListID, &it.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return it, fmt.Errorf("%w (id: %d)", ErrNoSuchItem, id)
	}
	if err != nil {
		return it, fmt.Errorf("edit item %d: %w", id, err)
	}
	return it, nil
}

func (d *DB) RemoveItem(ctx context.Context, id model.ID) (model.Item, error) {
	var it model.Item
	err := d.db.QueryRowContext(ctx,
		`DELETE FROM items WHERE id = ? RETURNING id, list_id, content`, id).
		Scan(&it.ID, &it.ListID, &it.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return it, fmt.Errorf("%w (id: %d)", ErrNoSuchItem, id)
	}
	if err != nil {
		return it, fmt.Errorf("delete item %d: %w", id, err)
	}
	return it, nil
}

func isConstraint(err error, code sqlite3.ErrNoExtended) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == code
}
