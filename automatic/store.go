package automatic

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// ResultStore persists batch results to a sqlite database so long tuning
// runs can be compared after the fact.
type ResultStore struct {
	db *sql.DB
}

// OpenResultStore opens (creating if needed) the results database at
// the given path.
func OpenResultStore(path string) (*ResultStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(`
	CREATE TABLE IF NOT EXISTS results (
		seed INTEGER NOT NULL,
		won INTEGER NOT NULL,
		foundation_count INTEGER NOT NULL,
		moves INTEGER NOT NULL,
		iterations INTEGER NOT NULL,
		elapsed_ms INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &ResultStore{db: db}, nil
}

// Save records one result.
func (s *ResultStore) Save(r Result) error {
	_, err := s.db.Exec(
		`INSERT INTO results (seed, won, foundation_count, moves, iterations, elapsed_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.Seed, r.Won, r.FoundationCount, r.Moves, r.Iterations,
		r.Elapsed.Milliseconds())
	return err
}

// Wins returns the stored winning results, shortest solutions first.
func (s *ResultStore) Wins(limit int) ([]Result, error) {
	rows, err := s.db.Query(
		`SELECT seed, won, foundation_count, moves, iterations, elapsed_ms
		 FROM results WHERE won = 1 ORDER BY moves ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var elapsedMs int64
		if err := rows.Scan(&r.Seed, &r.Won, &r.FoundationCount, &r.Moves,
			&r.Iterations, &elapsedMs); err != nil {
			return nil, err
		}
		r.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		results = append(results, r)
	}
	return results, rows.Err()
}

// Close closes the underlying database.
func (s *ResultStore) Close() error {
	return s.db.Close()
}
