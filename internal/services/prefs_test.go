package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukaan-ai/salesbot/internal/domain"
)

func TestMemoryPreferenceStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryPreferenceStore()

	assert.Equal(t, domain.LocaleEnglish, store.Locale(ctx, "911111"))

	require.NoError(t, store.SetLocale(ctx, "911111", domain.LocaleHindi))
	assert.Equal(t, domain.LocaleHindi, store.Locale(ctx, "911111"))
	assert.Equal(t, domain.LocaleEnglish, store.Locale(ctx, "922222"))
}

func TestSQLPreferenceStoreLocale(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT locale FROM preferences").
		WithArgs("911111").
		WillReturnRows(sqlmock.NewRows([]string{"locale"}).AddRow("hi"))

	store := NewSQLPreferenceStore(db)
	assert.Equal(t, domain.LocaleHindi, store.Locale(context.Background(), "911111"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLPreferenceStoreLocaleDefaultsOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT locale FROM preferences").
		WithArgs("911111").
		WillReturnError(assert.AnError)

	store := NewSQLPreferenceStore(db)
	assert.Equal(t, domain.LocaleEnglish, store.Locale(context.Background(), "911111"))
}

func TestSQLPreferenceStoreSetLocaleUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO preferences").
		WithArgs("911111", "hi").
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewSQLPreferenceStore(db)
	require.NoError(t, store.SetLocale(context.Background(), "911111", domain.LocaleHindi))
	assert.NoError(t, mock.ExpectationsWereMet())
}
