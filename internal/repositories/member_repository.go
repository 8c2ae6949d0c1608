package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gym_admin_backend/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// MemberRepository defines the interface for member-related database operations.
// Writes are full-record, last-write-wins; there is no optimistic versioning.
type MemberRepository interface {
	CreateMember(executor SQLExecutor, member *models.Member) (int64, error)
	GetMemberByID(id int64) (*models.Member, error) // returns soft-deleted rows too
	GetMembers(includeDeleted bool, searchTerm *string, page, pageSize int) ([]models.Member, int, error)
	UpdateMember(executor SQLExecutor, member *models.Member) error
	HardDeleteMember(executor SQLExecutor, id int64) error
}

type memberRepository struct {
	db *sql.DB
}

// NewMemberRepository creates a new instance of MemberRepository.
func NewMemberRepository(db *sql.DB) MemberRepository {
	return &memberRepository{db: db}
}

const memberColumns = `id, name, phone, email, gender, address, fee_type, fee_amount,
	fee_paid, fee_paid_date, expiry_date, fee_status, status, frozen_date, deleted_at,
	created_at, updated_at`

func scanMember(s interface{ Scan(dest ...interface{}) error }, m *models.Member, extra ...interface{}) error {
	var frozen, deleted sql.NullTime
	dest := []interface{}{
		&m.ID, &m.Name, &m.Phone, &m.Email, &m.Gender, &m.Address, &m.FeeType, &m.FeeAmount,
		&m.FeePaid, &m.FeePaidDate, &m.ExpiryDate, &m.FeeStatus, &m.Status, &frozen, &deleted,
		&m.CreatedAt, &m.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := s.Scan(dest...); err != nil {
		return err
	}
	if frozen.Valid {
		m.FrozenDate = &frozen.Time
	}
	if deleted.Valid {
		m.DeletedAt = &deleted.Time
	}
	return nil
}

// CreateMember inserts a new member into the database.
func (r *memberRepository) CreateMember(executor SQLExecutor, member *models.Member) (int64, error) {
	query := `INSERT INTO members (name, phone, email, gender, address, fee_type, fee_amount,
	            fee_paid, fee_paid_date, expiry_date, fee_status, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	          RETURNING id`

	currentTime := time.Now()
	if member.CreatedAt.IsZero() {
		member.CreatedAt = currentTime
	}
	if member.UpdatedAt.IsZero() {
		member.UpdatedAt = currentTime
	}

	err := executor.QueryRow(query,
		member.Name, member.Phone, member.Email, member.Gender, member.Address,
		member.FeeType, member.FeeAmount, member.FeePaid, member.FeePaidDate,
		member.ExpiryDate, member.FeeStatus, member.Status,
		member.CreatedAt, member.UpdatedAt,
	).Scan(&member.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
		}
		return 0, fmt.Errorf("%w: creating member: %v", ErrDatabaseError, err)
	}
	return member.ID, nil
}

// GetMemberByID retrieves a member by their ID, including soft-deleted rows.
// Visibility rules live in the service layer; restore needs the hidden row.
func (r *memberRepository) GetMemberByID(id int64) (*models.Member, error) {
	member := &models.Member{}
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`

	err := scanMember(r.db.QueryRow(query, id), member)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting member by ID %d: %v", ErrDatabaseError, id, err)
	}
	return member, nil
}

// GetMembers retrieves members with optional search and pagination.
// Soft-deleted rows are excluded unless includeDeleted is true. A pageSize of
// zero disables the LIMIT so callers can classify the full set in memory.
func (r *memberRepository) GetMembers(includeDeleted bool, searchTerm *string, page, pageSize int) ([]models.Member, int, error) {
	members := []models.Member{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + memberColumns + `, COUNT(*) OVER() as total_count FROM members`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if !includeDeleted {
		conditions = append(conditions, "deleted_at IS NULL")
	}
	if searchTerm != nil && *searchTerm != "" {
		searchPattern := "%" + strings.ToLower(*searchTerm) + "%"
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR phone ILIKE $%d OR email ILIKE $%d)", argCount, argCount, argCount))
		args = append(args, searchPattern)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY name ASC")

	if pageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, pageSize)
		argCount++
		if page > 0 {
			offset := (page - 1) * pageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying members: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var member models.Member
		if err := scanMember(rows, &member, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning member: %v", ErrDatabaseError, err)
		}
		members = append(members, member)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating member rows: %v", ErrDatabaseError, err)
	}

	return members, totalCount, nil
}

// UpdateMember writes the full member record back.
func (r *memberRepository) UpdateMember(executor SQLExecutor, member *models.Member) error {
	query := `UPDATE members SET
	            name = $1, phone = $2, email = $3, gender = $4, address = $5,
	            fee_type = $6, fee_amount = $7, fee_paid = $8, fee_paid_date = $9,
	            expiry_date = $10, fee_status = $11, status = $12, frozen_date = $13,
	            deleted_at = $14, updated_at = $15
	          WHERE id = $16`

	member.UpdatedAt = time.Now()
	var frozen, deleted sql.NullTime
	if member.FrozenDate != nil {
		frozen = sql.NullTime{Time: *member.FrozenDate, Valid: true}
	}
	if member.DeletedAt != nil {
		deleted = sql.NullTime{Time: *member.DeletedAt, Valid: true}
	}

	result, err := executor.Exec(query,
		member.Name, member.Phone, member.Email, member.Gender, member.Address,
		member.FeeType, member.FeeAmount, member.FeePaid, member.FeePaidDate,
		member.ExpiryDate, member.FeeStatus, member.Status, frozen, deleted,
		member.UpdatedAt, member.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
		}
		return fmt.Errorf("%w: updating member ID %d: %v", ErrDatabaseError, member.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for updating member ID %d: %v", ErrDatabaseError, member.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// HardDeleteMember removes the member row permanently. Attendance and payment
// rows are intentionally left in place so historical counts survive.
func (r *memberRepository) HardDeleteMember(executor SQLExecutor, id int64) error {
	query := `DELETE FROM members WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		return fmt.Errorf("%w: deleting member ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting member ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
