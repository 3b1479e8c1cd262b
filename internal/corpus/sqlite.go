package corpus

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/ppiankov/liarlens/internal/model"
)

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS statements (
	seq                 INTEGER PRIMARY KEY,
	statement_id        TEXT NOT NULL UNIQUE,
	label               TEXT NOT NULL,
	statement           TEXT NOT NULL,
	subject             TEXT,
	speaker             TEXT,
	profession          TEXT,
	state               TEXT,
	party               TEXT,
	context             TEXT,
	barely_true_count   INTEGER NOT NULL DEFAULT 0,
	false_count         INTEGER NOT NULL DEFAULT 0,
	half_true_count     INTEGER NOT NULL DEFAULT 0,
	mostly_true_count   INTEGER NOT NULL DEFAULT 0,
	pants_on_fire_count INTEGER NOT NULL DEFAULT 0
);`

const selectSnapshot = `
SELECT statement_id, label, statement, subject, speaker, profession, state, party, context,
       barely_true_count, false_count, half_true_count, mostly_true_count, pants_on_fire_count
FROM statements
ORDER BY seq`

const insertSnapshot = `
INSERT INTO statements (
	seq, statement_id, label, statement, subject, speaker, profession, state, party, context,
	barely_true_count, false_count, half_true_count, mostly_true_count, pants_on_fire_count
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// openSQLite opens a SQLite database file with the pure-Go driver
func openSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open sqlite %s", path)
	}
	// Single writer; the snapshot is small.
	db.SetMaxOpenConns(1)
	return db, nil
}

// LoadSQLite reads a snapshot written by SaveSQLite
func (l *Loader) LoadSQLite(ctx context.Context, path string) (store *Store, err error) {
	start := time.Now()

	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil && err == nil {
			err = errors.Wrap(closeErr, "close sqlite")
		}
	}()

	store, err = LoadSQL(ctx, db)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}

	l.logger.Info("corpus loaded",
		zap.String("source", path),
		zap.Int("count", store.Count()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return store, nil
}

// LoadSQL reads the statements table of an open database in snapshot order.
// NULL categorical values become the NA sentinel.
func LoadSQL(ctx context.Context, db *sql.DB) (*Store, error) {
	rows, err := db.QueryContext(ctx, selectSnapshot)
	if err != nil {
		return nil, errors.Wrap(err, "query statements")
	}
	defer func() { _ = rows.Close() }()

	var records []model.Record
	for rows.Next() {
		var (
			id, label, statement                              sql.NullString
			subject, speaker, profession, state, party, venue sql.NullString
			barely, falseN, half, mostly, pants               sql.NullString
		)
		if err := rows.Scan(&id, &label, &statement, &subject, &speaker, &profession, &state, &party, &venue,
			&barely, &falseN, &half, &mostly, &pants); err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "scan row %d", len(records)+1), ErrMalformed)
		}

		rec, err := rawRow{
			id:          id.String,
			label:       label.String,
			statement:   statement.String,
			subject:     subject.String,
			speaker:     speaker.String,
			profession:  profession.String,
			state:       state.String,
			party:       party.String,
			ctx:         venue.String,
			barelyTrue:  barely.String,
			falseCount:  falseN.String,
			halfTrue:    half.String,
			mostlyTrue:  mostly.String,
			pantsOnFire: pants.String,
		}.toRecord()
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", len(records)+1)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate statements")
	}

	return New(records)
}

// SaveSQLite writes the store to a SQLite snapshot, replacing any previous
// contents of the statements table
func (l *Loader) SaveSQLite(ctx context.Context, path string, store *Store) (err error) {
	db, err := openSQLite(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil && err == nil {
			err = errors.Wrap(closeErr, "close sqlite")
		}
	}()

	if err := SaveSQL(ctx, db, store); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}

	l.logger.Info("snapshot written", zap.String("file", path), zap.Int("count", store.Count()))
	return nil
}

// SaveSQL writes the store into db inside a single transaction
func SaveSQL(ctx context.Context, db *sql.DB, store *Store) (err error) {
	if _, err := db.ExecContext(ctx, snapshotSchema); err != nil {
		return errors.Wrap(err, "create schema")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM statements"); err != nil {
		return errors.Wrap(err, "clear statements")
	}

	stmt, err := tx.PrepareContext(ctx, insertSnapshot)
	if err != nil {
		return errors.Wrap(err, "prepare insert")
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range store.Records() {
		_, err = stmt.ExecContext(ctx,
			i+1, r.ID, string(r.Label), r.Text,
			nullable(r.Fields[0]), nullable(r.Fields[1]), nullable(r.Fields[2]),
			nullable(r.Fields[3]), nullable(r.Fields[4]), nullable(r.Fields[5]),
			r.History.BarelyTrue, r.History.False, r.History.HalfTrue,
			r.History.MostlyTrue, r.History.PantsOnFire,
		)
		if err != nil {
			return errors.Wrapf(err, "insert %s", r.ID)
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit")
	}
	return nil
}

// nullable stores the NA sentinel as SQL NULL
func nullable(v string) sql.NullString {
	if v == model.NA {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}
