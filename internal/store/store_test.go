package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "lenssafe.db"))
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAlerts_CreateAndList(t *testing.T) {
	s := newTestStore(t)
	repo := s.Alerts()

	base := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if _, err := repo.Create(base.Add(time.Duration(i) * time.Minute)); err != nil {
			t.Fatalf("creating alert %d: %v", i, err)
		}
	}

	alerts, err := repo.ListRecent(10)
	if err != nil {
		t.Fatalf("listing alerts: %v", err)
	}
	if len(alerts) != 3 {
		t.Fatalf("got %d alerts, want 3", len(alerts))
	}

	// Newest first.
	for i := 1; i < len(alerts); i++ {
		if alerts[i].TriggeredAt.After(alerts[i-1].TriggeredAt) {
			t.Errorf("alerts out of order: %v before %v", alerts[i-1].TriggeredAt, alerts[i].TriggeredAt)
		}
	}
	if alerts[0].ID == "" {
		t.Error("alert has empty ID")
	}
}

func TestAlerts_ListRecentLimit(t *testing.T) {
	s := newTestStore(t)
	repo := s.Alerts()

	base := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if _, err := repo.Create(base.Add(time.Duration(i) * time.Minute)); err != nil {
			t.Fatalf("creating alert %d: %v", i, err)
		}
	}

	alerts, err := repo.ListRecent(2)
	if err != nil {
		t.Fatalf("listing alerts: %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("got %d alerts, want 2", len(alerts))
	}
	if !alerts[0].TriggeredAt.Equal(base.Add(4 * time.Minute)) {
		t.Errorf("newest alert at %v, want %v", alerts[0].TriggeredAt, base.Add(4*time.Minute))
	}
}

func TestAlerts_CountSince(t *testing.T) {
	s := newTestStore(t)
	repo := s.Alerts()

	base := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		if _, err := repo.Create(base.Add(time.Duration(i) * time.Hour)); err != nil {
			t.Fatalf("creating alert %d: %v", i, err)
		}
	}

	count, err := repo.CountSince(base.Add(2 * time.Hour))
	if err != nil {
		t.Fatalf("counting alerts: %v", err)
	}
	// The cutoff is inclusive.
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	count, err = repo.CountSince(base.Add(24 * time.Hour))
	if err != nil {
		t.Fatalf("counting alerts: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestAlerts_DeleteBefore(t *testing.T) {
	s := newTestStore(t)
	repo := s.Alerts()

	base := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		if _, err := repo.Create(base.Add(time.Duration(i) * time.Hour)); err != nil {
			t.Fatalf("creating alert %d: %v", i, err)
		}
	}

	deleted, err := repo.DeleteBefore(base.Add(2 * time.Hour))
	if err != nil {
		t.Fatalf("deleting alerts: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted %d alerts, want 2", deleted)
	}

	alerts, err := repo.ListRecent(10)
	if err != nil {
		t.Fatalf("listing alerts: %v", err)
	}
	if len(alerts) != 2 {
		t.Errorf("got %d alerts after rotation, want 2", len(alerts))
	}
}

func TestSettings_GetSet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	if _, err := repo.Get("monitoring_enabled"); !errors.Is(err, ErrSettingNotFound) {
		t.Errorf("Get on missing key returned %v, want ErrSettingNotFound", err)
	}

	if err := repo.Set("monitoring_enabled", "true"); err != nil {
		t.Fatalf("setting value: %v", err)
	}
	value, err := repo.Get("monitoring_enabled")
	if err != nil {
		t.Fatalf("getting value: %v", err)
	}
	if value != "true" {
		t.Errorf("value = %q, want %q", value, "true")
	}

	// Set replaces.
	if err := repo.Set("monitoring_enabled", "false"); err != nil {
		t.Fatalf("updating value: %v", err)
	}
	value, err = repo.Get("monitoring_enabled")
	if err != nil {
		t.Fatalf("getting updated value: %v", err)
	}
	if value != "false" {
		t.Errorf("value = %q, want %q", value, "false")
	}
}

func TestStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lenssafe.db")

	s, err := New(path)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	if _, err := s.Alerts().Create(time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("creating alert: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("closing store: %v", err)
	}

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	defer reopened.Close()

	alerts, err := reopened.Alerts().ListRecent(10)
	if err != nil {
		t.Fatalf("listing alerts: %v", err)
	}
	if len(alerts) != 1 {
		t.Errorf("got %d alerts after reopen, want 1", len(alerts))
	}
}
