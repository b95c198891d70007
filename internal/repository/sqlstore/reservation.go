package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"clubstay-backend/internal/domain"
	"clubstay-backend/internal/logger"
	"clubstay-backend/internal/repository"
)

const reservationColumns = `id, code, guest_name, guest_email, guest_phone, accommodation_type, accommodation_name, location,
	check_in_date, check_out_date, guest_count, total_amount_cents, status, check_in_details, check_out_details,
	cancelled_at, cancelled_by, cancellation_reason, created_at, updated_at`

type reservationRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewReservationRepository(db *sql.DB, dialect Dialect) repository.ReservationRepository {
	return &reservationRepository{db: db, dialect: dialect}
}

func (r *reservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if res.CreatedAt.IsZero() {
		res.CreatedAt = now
	}
	res.UpdatedAt = now

	checkIn, checkOut, err := encodeDetails(res)
	if err != nil {
		return err
	}

	query := `INSERT INTO reservations (` + reservationColumns + `)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	logger.DatabaseCall("insert", "reservations", "code", res.Code)
	result, err := r.db.ExecContext(ctx, r.dialect.rebind(query),
		res.ID, res.Code, res.GuestName, res.GuestEmail, res.GuestPhone, res.AccommodationType, res.AccommodationName, res.Location,
		res.CheckInDate, res.CheckOutDate, res.GuestCount, res.TotalAmountCents, res.Status, checkIn, checkOut,
		res.CancelledAt, res.CancelledBy, res.CancellationReason, res.CreatedAt, res.UpdatedAt)
	if err != nil {
		logger.DatabaseResult("insert", 0, err, "table", "reservations")
		if isUniqueViolation(err) {
			return &domain.ConflictError{Entity: "reservation", Key: res.Code}
		}
		return fmt.Errorf("insert reservation: %w", err)
	}
	rows, _ := result.RowsAffected()
	logger.DatabaseResult("insert", rows, nil, "table", "reservations")
	return nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, r.dialect.rebind(query), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "reservation", Key: id}
	}
	return res, err
}

func (r *reservationRepository) GetByCode(ctx context.Context, code string) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE UPPER(code) = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, r.dialect.rebind(query), domain.NormalizeCode(code)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "reservation", Key: code}
	}
	return res, err
}

func (r *reservationRepository) List(ctx context.Context, f repository.ReservationFilter) ([]domain.Reservation, error) {
	var where []string
	var args []interface{}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	addRange := func(column string, from, to time.Time) {
		if !from.IsZero() {
			where = append(where, column+" >= ?")
			args = append(args, from)
		}
		if !to.IsZero() {
			where = append(where, column+" < ?")
			args = append(args, to)
		}
	}
	addRange("check_in_date", f.CheckInFrom, f.CheckInTo)
	addRange("check_out_date", f.CheckOutFrom, f.CheckOutTo)

	query := `SELECT ` + reservationColumns + ` FROM reservations`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	switch f.OrderBy {
	case repository.OrderByCheckInAsc:
		query += " ORDER BY check_in_date ASC"
	case repository.OrderByCheckInDesc:
		query += " ORDER BY check_in_date DESC"
	case repository.OrderByCheckOutAsc:
		query += " ORDER BY check_out_date ASC"
	default:
		query += " ORDER BY created_at DESC"
	}
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	list := make([]domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *res)
	}
	return list, rows.Err()
}

// Transition locks the row for the duration of the check-then-set.
func (r *reservationRepository) Transition(ctx context.Context, id string, from, to domain.ReservationStatus, mutate repository.ReservationMutation) (*domain.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transition: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ? FOR UPDATE`
	res, err := scanReservation(tx.QueryRowContext(ctx, r.dialect.rebind(query), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "reservation", Key: id}
	}
	if err != nil {
		return nil, err
	}
	if res.Status != from {
		return nil, &domain.InvalidStateError{
			Entity:   "reservation",
			ID:       id,
			Current:  string(res.Status),
			Expected: string(from),
		}
	}

	if mutate != nil {
		mutate(res)
	}
	res.Status = to
	res.UpdatedAt = time.Now().UTC()

	checkIn, checkOut, err := encodeDetails(res)
	if err != nil {
		return nil, err
	}
	update := `UPDATE reservations SET status = ?, check_in_details = ?, check_out_details = ?, cancelled_at = ?,
	           cancelled_by = ?, cancellation_reason = ?, updated_at = ? WHERE id = ?`
	logger.DatabaseCall("update", "reservations", "id", id, "status", to)
	result, err := tx.ExecContext(ctx, r.dialect.rebind(update),
		res.Status, checkIn, checkOut, res.CancelledAt, res.CancelledBy, res.CancellationReason, res.UpdatedAt, id)
	if err != nil {
		logger.DatabaseResult("update", 0, err, "table", "reservations")
		return nil, fmt.Errorf("update reservation: %w", err)
	}
	rows, _ := result.RowsAffected()
	logger.DatabaseResult("update", rows, nil, "table", "reservations")

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transition: %w", err)
	}
	return res, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var (
		res         domain.Reservation
		checkIn     sql.NullString
		checkOut    sql.NullString
		cancelledAt sql.NullTime
		cancelledBy sql.NullString
		reason      sql.NullString
	)
	err := row.Scan(&res.ID, &res.Code, &res.GuestName, &res.GuestEmail, &res.GuestPhone, &res.AccommodationType,
		&res.AccommodationName, &res.Location, &res.CheckInDate, &res.CheckOutDate, &res.GuestCount,
		&res.TotalAmountCents, &res.Status, &checkIn, &checkOut, &cancelledAt, &cancelledBy, &reason,
		&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if checkIn.Valid && checkIn.String != "" {
		res.CheckInDetails = &domain.CheckInDetails{}
		if err := json.Unmarshal([]byte(checkIn.String), res.CheckInDetails); err != nil {
			return nil, fmt.Errorf("decode check-in details: %w", err)
		}
	}
	if checkOut.Valid && checkOut.String != "" {
		res.CheckOutDetails = &domain.CheckOutDetails{}
		if err := json.Unmarshal([]byte(checkOut.String), res.CheckOutDetails); err != nil {
			return nil, fmt.Errorf("decode check-out details: %w", err)
		}
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		res.CancelledAt = &t
	}
	res.CancelledBy = cancelledBy.String
	res.CancellationReason = reason.String
	return &res, nil
}

// encodeDetails serializes the detail sub-records; absent records are stored as NULL.
func encodeDetails(res *domain.Reservation) (sql.NullString, sql.NullString, error) {
	var checkIn, checkOut sql.NullString
	if res.CheckInDetails != nil {
		b, err := json.Marshal(res.CheckInDetails)
		if err != nil {
			return checkIn, checkOut, fmt.Errorf("encode check-in details: %w", err)
		}
		checkIn = sql.NullString{String: string(b), Valid: true}
	}
	if res.CheckOutDetails != nil {
		b, err := json.Marshal(res.CheckOutDetails)
		if err != nil {
			return checkIn, checkOut, fmt.Errorf("encode check-out details: %w", err)
		}
		checkOut = sql.NullString{String: string(b), Valid: true}
	}
	return checkIn, checkOut, nil
}
