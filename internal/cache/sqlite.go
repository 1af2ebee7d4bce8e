package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"CryptoAnalyst/internal/model"
)

// SQLite persists cached series to a SQLite database so a restart does not
// re-hit every upstream provider within the TTL window.
type SQLite struct {
	db  *sql.DB
	ttl time.Duration
	mu  sync.Mutex
}

// NewSQLite opens (or creates) the SQLite database and runs migrations.
func NewSQLite(dbPath string, ttl time.Duration) (*SQLite, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	c := &SQLite{db: db, ttl: ttl}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite cache opened: %s", dbPath)
	return c, nil
}

func (c *SQLite) migrate() error {
	_, err := c.db.Exec(`CREATE TABLE IF NOT EXISTS series_cache (
		symbol     TEXT PRIMARY KEY,
		source     TEXT NOT NULL,
		fetched_at INTEGER NOT NULL,
		bars       TEXT NOT NULL
	)`)
	return err
}

func (c *SQLite) Get(symbol string, now time.Time) (*model.Series, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var source, barsJSON string
	var fetchedAt int64
	err := c.db.QueryRow(
		`SELECT source, fetched_at, bars FROM series_cache WHERE symbol = ?`, symbol,
	).Scan(&source, &fetchedAt, &barsJSON)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("[WARN] cache read for %s: %v", symbol, err)
		}
		return nil, false
	}

	fetched := time.Unix(fetchedAt, 0)
	if now.Sub(fetched) >= c.ttl {
		if _, err := c.db.Exec(`DELETE FROM series_cache WHERE symbol = ?`, symbol); err != nil {
			log.Printf("[WARN] cache expire for %s: %v", symbol, err)
		}
		return nil, false
	}

	var bars []model.Bar
	if err := json.Unmarshal([]byte(barsJSON), &bars); err != nil {
		log.Printf("[WARN] cache decode for %s: %v", symbol, err)
		return nil, false
	}
	return &model.Series{
		Symbol:    symbol,
		Source:    source,
		Bars:      bars,
		FetchedAt: fetched,
	}, true
}

func (c *SQLite) Put(series *model.Series) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	barsJSON, err := json.Marshal(series.Bars)
	if err != nil {
		return fmt.Errorf("encode bars: %w", err)
	}
	_, err = c.db.Exec(
		`INSERT INTO series_cache (symbol, source, fetched_at, bars) VALUES (?,?,?,?)
		 ON CONFLICT(symbol) DO UPDATE SET source=excluded.source,
		   fetched_at=excluded.fetched_at, bars=excluded.bars`,
		series.Symbol, series.Source, series.FetchedAt.Unix(), string(barsJSON),
	)
	return err
}

func (c *SQLite) Close() error {
	log.Println("[INFO] closing sqlite cache")
	return c.db.Close()
}
