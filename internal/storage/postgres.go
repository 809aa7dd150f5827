package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"creative-approval-engine/internal/config"
	"creative-approval-engine/internal/keywords"
)

// Store reads policy keyword tables from Postgres.
//
//	CREATE TABLE policy_keywords (
//	    category TEXT    NOT NULL,
//	    keyword  TEXT    NOT NULL,
//	    position INT     NOT NULL DEFAULT 0,
//	    active   BOOLEAN NOT NULL DEFAULT TRUE
//	);
type Store struct {
	pool *pgxpool.Pool
}

// KeywordRow is one row of policy_keywords.
type KeywordRow struct {
	Category string
	Keyword  string
}

func New(ctx context.Context, cfg config.Config) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres DSN: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.Postgres.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.Postgres.MaxIdleConns)
	poolCfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// LoadKeywords reads all active keywords and builds a fresh table snapshot.
func (s *Store) LoadKeywords(ctx context.Context) (keywords.Tables, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT category, keyword
		FROM policy_keywords
		WHERE active
		ORDER BY category, position, keyword
	`)
	if err != nil {
		return keywords.Tables{}, fmt.Errorf("query keywords: %w", err)
	}
	defer rows.Close()

	var out []KeywordRow
	for rows.Next() {
		var r KeywordRow
		if err := rows.Scan(&r.Category, &r.Keyword); err != nil {
			return keywords.Tables{}, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return keywords.Tables{}, err
	}
	if len(out) == 0 {
		return keywords.Tables{}, errors.New("policy_keywords has no active rows")
	}

	return TablesFromRows(out)
}

// TablesFromRows groups rows by category. Categories with no rows end up empty.
func TablesFromRows(rows []KeywordRow) (keywords.Tables, error) {
	lists := make(map[keywords.Category][]string, len(keywords.Categories))
	for _, c := range keywords.Categories {
		lists[c] = nil
	}
	for _, r := range rows {
		c := keywords.Category(r.Category)
		if !c.Valid() {
			return keywords.Tables{}, fmt.Errorf("unknown keyword category %q", r.Category)
		}
		lists[c] = append(lists[c], r.Keyword)
	}
	return keywords.New(lists)
}

// KeywordsChannel is the NOTIFY channel the policy_keywords trigger in
// migrations/001_policy_keywords.sql fires on.
const KeywordsChannel = "policy_keywords_changed"

func (s *Store) ListenChannel() string {
	return KeywordsChannel
}

func (s *Store) PgxPool() *pgxpool.Pool {
	if s.pool == nil {
		panic(errors.New("pgx pool is nil"))
	}
	return s.pool
}

