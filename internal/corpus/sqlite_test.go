package corpus

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/liarlens/internal/model"
)

var snapshotColumns = []string{
	"statement_id", "label", "statement", "subject", "speaker", "profession", "state", "party", "context",
	"barely_true_count", "false_count", "half_true_count", "mostly_true_count", "pants_on_fire_count",
}

func TestSQLite_RoundTrip(t *testing.T) {
	first := rec("1.json", model.LabelTrue, "economy")
	first.Text = "Jobs are up."
	first.History.MostlyTrue = 4
	second := rec("2.json", model.LabelPantsFire, model.NA)

	store, err := New([]model.Record{first, second})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "liar.db")
	loader := NewLoader(nil)
	ctx := context.Background()

	require.NoError(t, loader.SaveSQLite(ctx, path, store))
	// Saving twice replaces rather than duplicates.
	require.NoError(t, loader.SaveSQLite(ctx, path, store))

	loaded, err := loader.LoadSQLite(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, store.Records(), loaded.Records())
}

func TestLoadSQL_Order(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(snapshotColumns).
		AddRow("b.json", "true", "t", "economy", nil, nil, nil, nil, nil, 0, 0, 0, 0, 0).
		AddRow("a.json", "false", "t", nil, "someone", nil, "ohio", "republican", "a tweet", 1, 2, 3, 4, 5)
	mock.ExpectQuery("SELECT statement_id, label").WillReturnRows(rows)

	store, err := LoadSQL(context.Background(), db)
	require.NoError(t, err)
	require.Equal(t, 2, store.Count())

	records := store.Records()
	assert.Equal(t, "b.json", records[0].ID)
	assert.Equal(t, model.NA, records[0].Field(model.DimSpeaker))
	assert.Equal(t, model.NA, records[1].Field(model.DimSubject))
	assert.Equal(t, 5, records[1].History.PantsOnFire)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSQL_Failures(t *testing.T) {
	t.Run("query error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT statement_id").WillReturnError(errors.New("no such table: statements"))

		store, err := LoadSQL(context.Background(), db)
		assert.Error(t, err)
		assert.Nil(t, store)
	})

	t.Run("unknown label", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows(snapshotColumns).
			AddRow("1.json", "true", "t", nil, nil, nil, nil, nil, nil, 0, 0, 0, 0, 0).
			AddRow("2.json", "mostly-false", "t", nil, nil, nil, nil, nil, nil, 0, 0, 0, 0, 0)
		mock.ExpectQuery("SELECT statement_id").WillReturnRows(rows)

		store, err := LoadSQL(context.Background(), db)
		assert.True(t, errors.Is(err, model.ErrUnknownLabel), "got %v", err)
		assert.Nil(t, store)
	})

	t.Run("row error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows(snapshotColumns).
			AddRow("1.json", "true", "t", nil, nil, nil, nil, nil, nil, 0, 0, 0, 0, 0).
			RowError(0, errors.New("disk I/O error"))
		mock.ExpectQuery("SELECT statement_id").WillReturnRows(rows)

		store, err := LoadSQL(context.Background(), db)
		assert.Error(t, err)
		assert.Nil(t, store)
	})
}

func TestSaveSQL_InsertFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store, err := New([]model.Record{
		rec("1.json", model.LabelTrue, "economy"),
		rec("2.json", model.LabelFalse, model.NA),
	})
	require.NoError(t, err)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS statements").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM statements").WillReturnResult(sqlmock.NewResult(0, 0))
	prep := mock.ExpectPrepare("INSERT INTO statements")
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WillReturnError(errors.New("UNIQUE constraint failed"))
	mock.ExpectRollback()

	err = SaveSQL(context.Background(), db, store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert 2.json")
	assert.NoError(t, mock.ExpectationsWereMet())
}
