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

const billingColumns = `id, access_id, member_name, member_code, membership_type, location, companions_count, access_time,
	staff_name, status, items, total_amount_cents, notes, processed_at, processed_by, created_at`

type billingRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewBillingRepository(db *sql.DB, dialect Dialect) repository.BillingRepository {
	return &billingRepository{db: db, dialect: dialect}
}

func (r *billingRepository) Create(ctx context.Context, b *domain.BillingRecord) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	items, err := json.Marshal(b.Items)
	if err != nil {
		return fmt.Errorf("encode billing items: %w", err)
	}

	query := `INSERT INTO billing_records (` + billingColumns + `)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	logger.DatabaseCall("insert", "billing_records", "access_id", b.AccessID)
	_, err = r.db.ExecContext(ctx, r.dialect.rebind(query),
		b.ID, b.AccessID, b.MemberName, b.MemberCode, b.MembershipType, b.Location, b.CompanionsCount, b.AccessTime,
		b.StaffName, b.Status, string(items), b.TotalAmountCents, b.Notes, b.ProcessedAt, b.ProcessedBy, b.CreatedAt)
	if err != nil {
		logger.DatabaseResult("insert", 0, err, "table", "billing_records")
		if isUniqueViolation(err) {
			return &domain.ConflictError{Entity: "billing record", Key: b.ID}
		}
		return fmt.Errorf("insert billing record: %w", err)
	}
	logger.DatabaseResult("insert", 1, nil, "table", "billing_records")
	return nil
}

func (r *billingRepository) GetByID(ctx context.Context, id string) (*domain.BillingRecord, error) {
	query := `SELECT ` + billingColumns + ` FROM billing_records WHERE id = ?`
	b, err := scanBilling(r.db.QueryRowContext(ctx, r.dialect.rebind(query), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "billing record", Key: id}
	}
	return b, err
}

func (r *billingRepository) List(ctx context.Context, f repository.BillingFilter) ([]domain.BillingRecord, error) {
	var where []string
	var args []interface{}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if !f.CreatedFrom.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, f.CreatedFrom)
	}
	if !f.CreatedTo.IsZero() {
		where = append(where, "created_at < ?")
		args = append(args, f.CreatedTo)
	}

	query := `SELECT ` + billingColumns + ` FROM billing_records`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY access_time DESC, created_at DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list billing records: %w", err)
	}
	defer rows.Close()

	list := make([]domain.BillingRecord, 0)
	for rows.Next() {
		b, err := scanBilling(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *b)
	}
	return list, rows.Err()
}

func (r *billingRepository) Update(ctx context.Context, id string, mutate repository.BillingMutation) (*domain.BillingRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin billing update: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + billingColumns + ` FROM billing_records WHERE id = ? FOR UPDATE`
	b, err := scanBilling(tx.QueryRowContext(ctx, r.dialect.rebind(query), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "billing record", Key: id}
	}
	if err != nil {
		return nil, err
	}

	mutate(b)

	update := `UPDATE billing_records SET status = ?, notes = ?, processed_at = ?, processed_by = ? WHERE id = ?`
	logger.DatabaseCall("update", "billing_records", "id", id, "status", b.Status)
	if _, err := tx.ExecContext(ctx, r.dialect.rebind(update), b.Status, b.Notes, b.ProcessedAt, b.ProcessedBy, id); err != nil {
		logger.DatabaseResult("update", 0, err, "table", "billing_records")
		return nil, fmt.Errorf("update billing record: %w", err)
	}
	logger.DatabaseResult("update", 1, nil, "table", "billing_records")

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit billing update: %w", err)
	}
	return b, nil
}

func scanBilling(row rowScanner) (*domain.BillingRecord, error) {
	var (
		b           domain.BillingRecord
		items       string
		notes       sql.NullString
		processedAt sql.NullTime
		processedBy sql.NullString
	)
	err := row.Scan(&b.ID, &b.AccessID, &b.MemberName, &b.MemberCode, &b.MembershipType, &b.Location,
		&b.CompanionsCount, &b.AccessTime, &b.StaffName, &b.Status, &items, &b.TotalAmountCents, &notes,
		&processedAt, &processedBy, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	decoded := []domain.LineItem{}
	if items != "" && items != "null" {
		if err := json.Unmarshal([]byte(items), &decoded); err != nil {
			return nil, fmt.Errorf("decode billing items: %w", err)
		}
	}
	b.SetItems(decoded)
	b.Notes = notes.String
	if processedAt.Valid {
		t := processedAt.Time
		b.ProcessedAt = &t
	}
	b.ProcessedBy = processedBy.String
	return &b, nil
}
