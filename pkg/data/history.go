package data

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mchmarny/trustscore/pkg/record"
)

const (
	timeFormat = "2006-01-02T15:04:05.000000000Z"

	insertScoreSQL = `INSERT INTO score (url, name, category, net_score, degraded, record, scored_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	selectScoresSQL = `SELECT url, net_score, degraded, record, scored_at
		FROM score
		WHERE url = ?
		ORDER BY scored_at DESC, id DESC
		LIMIT ?
	`

	defaultHistoryLimit = 100
)

// Entry is one stored record.
type Entry struct {
	URL      string        `json:"url" yaml:"url"`
	NetScore float64       `json:"net_score" yaml:"netScore"`
	Degraded bool          `json:"degraded" yaml:"degraded"`
	ScoredAt time.Time     `json:"scored_at" yaml:"scoredAt"`
	Record   record.Record `json:"record" yaml:"record"`
}

// SaveRecord stores r with the time it was scored.
func SaveRecord(db *sql.DB, r record.Record, degraded bool, at time.Time) error {
	if db == nil {
		return errDBNotInitialized
	}
	if r.URL == "" {
		return errors.New("record url is required")
	}

	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal record %s: %w", r.URL, err)
	}

	if _, err := db.Exec(insertScoreSQL, r.URL, r.Name, string(r.Category), r.NetScore,
		degraded, string(b), at.UTC().Format(timeFormat)); err != nil {
		return fmt.Errorf("failed to insert record %s: %w", r.URL, err)
	}
	return nil
}

// GetHistory returns up to limit stored entries for url, newest first.
// A non-positive limit selects the default.
func GetHistory(db *sql.DB, url string, limit int) ([]*Entry, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	rows, err := db.Query(selectScoresSQL, url, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history for %s: %w", url, err)
	}
	defer rows.Close()

	list := make([]*Entry, 0)
	for rows.Next() {
		var (
			e     Entry
			raw   string
			stamp string
			degr  bool
		)
		if err := rows.Scan(&e.URL, &e.NetScore, &degr, &raw, &stamp); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.Degraded = degr
		if err := json.Unmarshal([]byte(raw), &e.Record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stored record: %w", err)
		}
		if e.ScoredAt, err = time.Parse(timeFormat, stamp); err != nil {
			return nil, fmt.Errorf("failed to parse scored_at %q: %w", stamp, err)
		}
		list = append(list, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history rows: %w", err)
	}
	return list, nil
}
