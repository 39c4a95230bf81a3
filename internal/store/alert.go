package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Alert represents one dispatched eye-rubbing alert.
type Alert struct {
	ID          string    `json:"id"`
	TriggeredAt time.Time `json:"triggered_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// AlertRepository provides access to the alert-event log.
type AlertRepository struct {
	db *sql.DB
}

// Alerts returns the alert repository for this store.
func (s *Store) Alerts() *AlertRepository {
	return &AlertRepository{db: s.db}
}

// Create records a dispatched alert and returns it.
func (r *AlertRepository) Create(triggeredAt time.Time) (*Alert, error) {
	a := &Alert{
		ID:          uuid.NewString(),
		TriggeredAt: triggeredAt.UTC(),
	}

	_, err := r.db.Exec(
		`INSERT INTO alerts (id, triggered_at) VALUES (?, ?)`,
		a.ID, a.TriggeredAt,
	)
	if err != nil {
		return nil, err
	}

	return a, nil
}

// ListRecent returns up to limit alerts, newest first.
func (r *AlertRepository) ListRecent(limit int) ([]Alert, error) {
	rows, err := r.db.Query(
		`SELECT id, triggered_at, created_at
		 FROM alerts
		 ORDER BY triggered_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []Alert
	for rows.Next() {
		var a Alert
		if err := rows.Scan(&a.ID, &a.TriggeredAt, &a.CreatedAt); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return alerts, nil
}

// CountSince returns the number of alerts triggered at or after t.
func (r *AlertRepository) CountSince(t time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM alerts WHERE triggered_at >= ?`,
		t.UTC(),
	).Scan(&count)
	return count, err
}

// DeleteBefore removes alerts triggered before t, for log rotation.
func (r *AlertRepository) DeleteBefore(t time.Time) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM alerts WHERE triggered_at < ?`, t.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
