package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLite 数据库管件库
type SQLite struct {
	db *sql.DB
}

// OpenSQLite 打开数据库管件库, 空库时写入内置数据
func OpenSQLite(ctx context.Context, dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("打开数据库失败: %w", err)
	}
	s := &SQLite{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("迁移数据库失败: %w", err)
	}
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fittings`).Scan(&n); err != nil {
		db.Close()
		return nil, fmt.Errorf("查询管件数量失败: %w", err)
	}
	if n == 0 {
		for _, it := range Defaults() {
			if err := s.Upsert(ctx, &it); err != nil {
				db.Close()
				return nil, err
			}
		}
	}
	return s, nil
}

func (s *SQLite) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS fittings (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		category TEXT NOT NULL,
		data JSON NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_fittings_category ON fittings(category);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *SQLite) All(ctx context.Context) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM fittings ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("查询管件失败: %w", err)
	}
	defer rows.Close()
	var items []Item
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("读取管件失败: %w", err)
		}
		var it Item
		if err := json.Unmarshal(data, &it); err != nil {
			return nil, fmt.Errorf("解析管件失败: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *SQLite) Get(ctx context.Context, id string) (Item, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM fittings WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, ErrNotFound
	}
	if err != nil {
		return Item{}, fmt.Errorf("查询管件失败: %w", err)
	}
	var it Item
	if err := json.Unmarshal(data, &it); err != nil {
		return Item{}, fmt.Errorf("解析管件失败: %w", err)
	}
	return it, nil
}

func (s *SQLite) Upsert(ctx context.Context, item *Item) error {
	if item.ID == "" {
		item.ID = newID()
	}
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("序列化管件失败: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO fittings (id, category, data, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			category = excluded.category,
			data = excluded.data,
			updated_at = CURRENT_TIMESTAMP
	`, item.ID, item.Category, data)
	if err != nil {
		return fmt.Errorf("写入管件失败: %w", err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM fittings WHERE id = ?`, id); err != nil {
		return fmt.Errorf("删除管件失败: %w", err)
	}
	return nil
}

// Close 关闭数据库
func (s *SQLite) Close() error { return s.db.Close() }
