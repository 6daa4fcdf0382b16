// ABOUTME: Record store: maps Record values to the registro table and back.
// ABOUTME: One connection and one statement per call; failures are logged and absorbed.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/bodylog/internal/models"
	"github.com/harperreed/bodylog/internal/observability"
	"github.com/rs/zerolog"
)

// Operation names, used in errors, logs, and metrics.
const (
	OpList     = "list"
	OpFindByID = "find_by_id"
	OpExists   = "exists"
	OpInsert   = "insert"
	OpUpdate   = "update"
	OpDelete   = "delete"
)

const (
	listQuery = `
		SELECT id, peso, bicepIzquierdo, bicepDerecho, cintura, cuadriceps, pantorrillas, fecha
		FROM registro
		ORDER BY id`

	findQuery = `
		SELECT id, peso, bicepIzquierdo, bicepDerecho, cintura, cuadriceps, pantorrillas, fecha
		FROM registro
		WHERE id = ?`

	existsQuery = `SELECT 1 FROM registro WHERE id = ? LIMIT 1`

	insertQuery = `
		INSERT INTO registro (peso, bicepIzquierdo, bicepDerecho, cintura, cuadriceps, pantorrillas)
		VALUES (?, ?, ?, ?, ?, ?)`

	updateQuery = `
		UPDATE registro
		SET peso = ?, bicepIzquierdo = ?, bicepDerecho = ?, cintura = ?, cuadriceps = ?, pantorrillas = ?
		WHERE id = ?`

	deleteQuery = `DELETE FROM registro WHERE id = ?`
)

// Store implements Repository on top of an Acquirer.
type Store struct {
	conns  Acquirer
	logger zerolog.Logger
}

// Compile-time check that Store implements Repository.
var _ Repository = (*Store)(nil)

// NewStore creates a store that acquires a fresh connection for every call.
func NewStore(conns Acquirer, logger zerolog.Logger) *Store {
	return &Store{
		conns:  conns,
		logger: logger.With().Str("component", "store").Logger(),
	}
}

// List returns every record ordered by ascending id. Database failures
// yield an empty slice.
func (s *Store) List(ctx context.Context) []models.Record {
	c := s.begin(OpList)

	records, err := s.list(ctx)
	if err != nil {
		c.fail(err)
		return []models.Record{}
	}

	c.done(observability.ResultOK)
	return records
}

func (s *Store) list(ctx context.Context) ([]models.Record, error) {
	conn, err := s.conns.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, listQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// FindByID loads the row matching r.ID into r. It returns false, leaving r
// untouched, when there is no such row or the lookup fails.
func (s *Store) FindByID(ctx context.Context, r *models.Record) (bool, error) {
	if r == nil {
		return false, s.invalid(OpFindByID, "record must not be nil")
	}
	c := s.begin(OpFindByID).withID(r.ID)

	conn, err := s.conns.Acquire(ctx)
	if err != nil {
		c.fail(err)
		return false, nil
	}
	defer conn.Close()

	got, err := scanRecord(conn.QueryRowContext(ctx, findQuery, r.ID))
	if errors.Is(err, sql.ErrNoRows) {
		c.done(observability.ResultMiss)
		return false, nil
	}
	if err != nil {
		c.fail(err)
		return false, nil
	}

	*r = got
	c.done(observability.ResultOK)
	return true, nil
}

// Exists reports whether a row with the given id is present. A
// non-positive id is rejected without touching the database.
func (s *Store) Exists(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, s.invalid(OpExists, "id must be greater than 0, got %d", id)
	}
	c := s.begin(OpExists).withID(id)

	conn, err := s.conns.Acquire(ctx)
	if err != nil {
		c.fail(err)
		return false, nil
	}
	defer conn.Close()

	var one int
	err = conn.QueryRowContext(ctx, existsQuery, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		c.done(observability.ResultMiss)
		return false, nil
	}
	if err != nil {
		c.fail(err)
		return false, nil
	}

	c.done(observability.ResultOK)
	return true, nil
}

// Insert stores the six measurements of r as a new row. The id and
// timestamp are assigned by the database; the generated id is written back
// to r.ID when the driver reports it.
func (s *Store) Insert(ctx context.Context, r *models.Record) (bool, error) {
	if r == nil {
		return false, s.invalid(OpInsert, "record must not be nil")
	}
	if err := r.Validate(); err != nil {
		return false, s.rejected(OpInsert, invalidRecord(OpInsert, err))
	}
	c := s.begin(OpInsert)

	conn, err := s.conns.Acquire(ctx)
	if err != nil {
		c.fail(err)
		return false, nil
	}
	defer conn.Close()

	args := measurementArgs(r)

	if conn.dialect.returningID {
		var id int64
		if err := conn.QueryRowContext(ctx, insertQuery+" RETURNING id", args...).Scan(&id); err != nil {
			c.fail(err)
			return false, nil
		}
		r.ID = id
		c.withID(id).done(observability.ResultOK)
		return true, nil
	}

	res, err := conn.ExecContext(ctx, insertQuery, args...)
	if err != nil {
		c.fail(err)
		return false, nil
	}
	affected, err := res.RowsAffected()
	if err != nil {
		c.fail(err)
		return false, nil
	}
	if affected != 1 {
		c.log.Warn().Int64("affected", affected).Msg("insert affected an unexpected number of rows")
		c.done(observability.ResultMiss)
		return false, nil
	}

	if id, err := res.LastInsertId(); err == nil {
		r.ID = id
		c.withID(id)
	} else {
		c.log.Warn().Err(err).Msg("driver did not report the generated id")
	}

	c.done(observability.ResultOK)
	return true, nil
}

// Update overwrites the measurements of the row matching r.ID. It returns
// true iff exactly one row was affected.
func (s *Store) Update(ctx context.Context, r *models.Record) (bool, error) {
	if r == nil {
		return false, s.invalid(OpUpdate, "record must not be nil")
	}
	if err := r.Validate(); err != nil {
		return false, s.rejected(OpUpdate, invalidRecord(OpUpdate, err))
	}

	args := append(measurementArgs(r), r.ID)
	return s.execOne(ctx, s.begin(OpUpdate).withID(r.ID), updateQuery, args...), nil
}

// Delete removes the row matching r.ID. It returns true iff exactly one row
// was affected, so a repeated delete of the same id returns false.
func (s *Store) Delete(ctx context.Context, r *models.Record) (bool, error) {
	if r == nil {
		return false, s.invalid(OpDelete, "record must not be nil")
	}
	return s.execOne(ctx, s.begin(OpDelete).withID(r.ID), deleteQuery, r.ID), nil
}

// execOne runs a single-row write and reports whether exactly one row changed.
func (s *Store) execOne(ctx context.Context, c *call, query string, args ...any) bool {
	conn, err := s.conns.Acquire(ctx)
	if err != nil {
		c.fail(err)
		return false
	}
	defer conn.Close()

	res, err := conn.ExecContext(ctx, query, args...)
	if err != nil {
		c.fail(err)
		return false
	}
	affected, err := res.RowsAffected()
	if err != nil {
		c.fail(err)
		return false
	}
	if affected != 1 {
		c.done(observability.ResultMiss)
		return false
	}

	c.done(observability.ResultOK)
	return true
}

func (s *Store) invalid(op, format string, args ...any) error {
	return s.rejected(op, invalidArgument(op, format, args...))
}

func (s *Store) rejected(op string, err error) error {
	observability.ObserveOperation(op, observability.ResultInvalid, 0)
	s.logger.Debug().Str("op", op).Err(err).Msg("rejected call")
	return err
}

// call tracks one store operation for logging and metrics.
type call struct {
	op    string
	start time.Time
	log   zerolog.Logger
}

func (s *Store) begin(op string) *call {
	return &call{
		op:    op,
		start: time.Now(),
		log:   s.logger.With().Str("op", op).Str("call_id", uuid.NewString()).Logger(),
	}
}

func (c *call) withID(id int64) *call {
	c.log = c.log.With().Int64("id", id).Logger()
	return c
}

func (c *call) done(result string) {
	elapsed := time.Since(c.start)
	observability.ObserveOperation(c.op, result, elapsed)
	c.log.Debug().Str("result", result).Dur("elapsed", elapsed).Msg("store call finished")
}

// fail logs an absorbed failure. The caller only sees a falsy result.
func (c *call) fail(err error) {
	elapsed := time.Since(c.start)
	observability.ObserveOperation(c.op, observability.ResultFailed, elapsed)
	c.log.Error().Err(&OperationError{Op: c.op, Err: err}).Dur("elapsed", elapsed).Msg("store call failed")
}

func measurementArgs(r *models.Record) []any {
	return []any{r.Weight, r.LeftBicep, r.RightBicep, r.Waist, r.Quadriceps, r.Calves}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (models.Record, error) {
	var r models.Record
	var recordedAt timestamp

	err := row.Scan(&r.ID, &r.Weight, &r.LeftBicep, &r.RightBicep,
		&r.Waist, &r.Quadriceps, &r.Calves, &recordedAt)
	if err != nil {
		return models.Record{}, err
	}
	r.RecordedAt = recordedAt.Time
	return r, nil
}
