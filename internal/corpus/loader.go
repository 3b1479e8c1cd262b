package corpus

import (
	"bufio"
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/ppiankov/liarlens/internal/model"
)

// Partitions are the raw LIAR files, concatenated in this order
var Partitions = []string{"train.tsv", "test.tsv", "valid.tsv"}

// tsvColumns is the number of columns of a raw LIAR partition
const tsvColumns = 14

// Columns is the source schema, in raw TSV order
var Columns = []string{
	"statement_id", "label", "statement", "subject", "speaker", "profession",
	"state", "party", "barely_true", "false", "half_true", "mostly_true",
	"pants_on_fire", "context",
}

// ctxCheckEvery is how many rows are parsed between cancellation checks
const ctxCheckEvery = 1024

// Loader builds stores from the supported sources
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a loader; a nil logger discards output
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger.Named("corpus")}
}

// Load picks the configured source: directory of partitions, then CSV, then SQLite
func (l *Loader) Load(ctx context.Context, cfg model.DataConfig) (*Store, error) {
	switch {
	case cfg.Dir != "":
		return l.LoadDir(ctx, cfg.Dir)
	case cfg.CSV != "":
		return l.LoadCSV(ctx, cfg.CSV)
	case cfg.SQLite != "":
		return l.LoadSQLite(ctx, cfg.SQLite)
	default:
		return nil, errors.WithHint(
			errors.New("no data source configured"),
			"pass --data DIR, --csv FILE or --db FILE",
		)
	}
}

// LoadDir reads the three raw partitions from dir and concatenates them in
// train, test, valid order. Every partition must be present.
func (l *Loader) LoadDir(ctx context.Context, dir string) (*Store, error) {
	start := time.Now()
	var records []model.Record

	for _, name := range Partitions {
		path := filepath.Join(dir, name)
		part, err := l.loadTSVFile(ctx, path)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("loaded partition", zap.String("file", path), zap.Int("count", len(part)))
		records = append(records, part...)
	}

	store, err := New(records)
	if err != nil {
		return nil, errors.Wrapf(err, "build store from %s", dir)
	}

	l.logger.Info("corpus loaded",
		zap.String("source", dir),
		zap.Int("count", store.Count()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return store, nil
}

func (l *Loader) loadTSVFile(ctx context.Context, path string) (records []model.Record, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open partition")
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = errors.Wrapf(closeErr, "close %s", path)
		}
	}()

	records, err = ReadTSV(ctx, f)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return records, nil
}

// maxLineBytes bounds one raw partition row
const maxLineBytes = 1 << 20

// ReadTSV parses one raw LIAR partition (tab separated, no header). The raw
// files have no quoting convention, so quotes are kept as statement text.
func ReadTSV(ctx context.Context, r io.Reader) ([]model.Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var records []model.Record
	for line := 1; scanner.Scan(); line++ {
		if line%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		text := strings.TrimSuffix(scanner.Text(), "\r")
		if text == "" {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) != tsvColumns {
			return nil, errors.Wrapf(ErrMalformed, "line %d: %d fields, want %d", line, len(fields), tsvColumns)
		}

		rec, err := rawRow{
			id:          fields[0],
			label:       fields[1],
			statement:   fields[2],
			subject:     fields[3],
			speaker:     fields[4],
			profession:  fields[5],
			state:       fields[6],
			party:       fields[7],
			barelyTrue:  fields[8],
			falseCount:  fields[9],
			halfTrue:    fields[10],
			mostlyTrue:  fields[11],
			pantsOnFire: fields[12],
			ctx:         fields[13],
		}.toRecord()
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "scan partition"), ErrMalformed)
	}

	return records, nil
}

// LoadCSV reads the preprocessed single-file corpus (comma separated, with a
// header row). Columns are matched by name; unnamed columns such as a
// leading row index are ignored.
func (l *Loader) LoadCSV(ctx context.Context, path string) (store *Store, err error) {
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open csv")
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = errors.Wrapf(closeErr, "close %s", path)
		}
	}()

	records, err := ReadCSV(ctx, f)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}

	store, err = New(records)
	if err != nil {
		return nil, errors.Wrapf(err, "build store from %s", path)
	}

	l.logger.Info("corpus loaded",
		zap.String("source", path),
		zap.Int("count", store.Count()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return store, nil
}

// ReadCSV parses a header-led CSV holding every schema column
func ReadCSV(ctx context.Context, r io.Reader) ([]model.Record, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "read header"), ErrMalformed)
	}
	cr.FieldsPerRecord = len(header)

	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range Columns {
		if _, ok := pos[col]; !ok {
			return nil, errors.Wrapf(ErrMalformed, "missing column %q", col)
		}
	}

	var records []model.Record
	for line := 2; ; line++ {
		if line%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "line %d", line), ErrMalformed)
		}

		col := func(name string) string { return fields[pos[name]] }
		rec, err := rawRow{
			id:          col("statement_id"),
			label:       col("label"),
			statement:   col("statement"),
			subject:     col("subject"),
			speaker:     col("speaker"),
			profession:  col("profession"),
			state:       col("state"),
			party:       col("party"),
			barelyTrue:  col("barely_true"),
			falseCount:  col("false"),
			halfTrue:    col("half_true"),
			mostlyTrue:  col("mostly_true"),
			pantsOnFire: col("pants_on_fire"),
			ctx:         col("context"),
		}.toRecord()
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		records = append(records, rec)
	}

	return records, nil
}
