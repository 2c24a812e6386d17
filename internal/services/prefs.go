package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dukaan-ai/salesbot/internal/domain"
)

// SQLPreferenceStore keeps per-caller language preferences in the
// preferences table. Lookups fall back to English on any failure; the
// preference is a convenience, never a precondition.
type SQLPreferenceStore struct {
	db *sql.DB
}

func NewSQLPreferenceStore(db *sql.DB) *SQLPreferenceStore {
	return &SQLPreferenceStore{db: db}
}

func (s *SQLPreferenceStore) Locale(ctx context.Context, ownerIdentity string) domain.Locale {
	if s.db == nil || ownerIdentity == "" {
		return domain.LocaleEnglish
	}
	var loc string
	err := s.db.QueryRowContext(ctx,
		"SELECT locale FROM preferences WHERE owner_phone = $1", ownerIdentity).Scan(&loc)
	if err != nil {
		return domain.LocaleEnglish
	}
	return domain.ParseLocale(loc)
}

func (s *SQLPreferenceStore) SetLocale(ctx context.Context, ownerIdentity string, loc domain.Locale) error {
	if s.db == nil {
		return fmt.Errorf("preference store: database not available")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO preferences (owner_phone, locale) VALUES ($1, $2)
		 ON CONFLICT (owner_phone) DO UPDATE SET locale = EXCLUDED.locale`,
		ownerIdentity, string(loc))
	if err != nil {
		return fmt.Errorf("preference store: %w", err)
	}
	return nil
}

// MemoryPreferenceStore is the in-process fallback used in tests and when
// no DATABASE_URL is configured.
type MemoryPreferenceStore struct {
	mu    sync.RWMutex
	prefs map[string]domain.Locale
}

func NewMemoryPreferenceStore() *MemoryPreferenceStore {
	return &MemoryPreferenceStore{prefs: make(map[string]domain.Locale)}
}

func (s *MemoryPreferenceStore) Locale(ctx context.Context, ownerIdentity string) domain.Locale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if loc, ok := s.prefs[ownerIdentity]; ok {
		return loc
	}
	return domain.LocaleEnglish
}

func (s *MemoryPreferenceStore) SetLocale(ctx context.Context, ownerIdentity string, loc domain.Locale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[ownerIdentity] = loc
	return nil
}
