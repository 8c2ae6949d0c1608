package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"gym_admin_backend/internal/models"
)

// PaymentRepository defines the interface for the payment ledger.
// Entries are append-only; nothing in the engine updates or deletes them.
type PaymentRepository interface {
	AppendPayment(executor SQLExecutor, payment *models.PaymentRecord) (int64, error)
	GetPayments(filters models.PaymentFilters) ([]models.PaymentRecord, int, error)
	GetMonthlyRevenue() ([]models.MonthlyRevenue, error)
	SumForRange(from, to time.Time) (float64, error)
}

type paymentRepository struct {
	db *sql.DB
}

// NewPaymentRepository creates a new instance of PaymentRepository.
func NewPaymentRepository(db *sql.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// AppendPayment inserts a ledger entry.
func (r *paymentRepository) AppendPayment(executor SQLExecutor, payment *models.PaymentRecord) (int64, error) {
	query := `INSERT INTO payment_records (member_id, member_name, fee_type, amount, payment_date, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`

	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}

	err := executor.QueryRow(query,
		payment.MemberID, payment.MemberName, payment.FeeType,
		payment.Amount, payment.PaymentDate, payment.CreatedAt,
	).Scan(&payment.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: appending payment record: %v", ErrDatabaseError, err)
	}
	return payment.ID, nil
}

// GetPayments retrieves ledger entries with optional member and date-range filters.
func (r *paymentRepository) GetPayments(filters models.PaymentFilters) ([]models.PaymentRecord, int, error) {
	payments := []models.PaymentRecord{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT id, member_id, member_name, fee_type, amount, payment_date, created_at,
	                          COUNT(*) OVER() as total_count FROM payment_records`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.MemberID != nil {
		conditions = append(conditions, fmt.Sprintf("member_id = $%d", argCount))
		args = append(args, *filters.MemberID)
		argCount++
	}
	if filters.FromDate != nil && *filters.FromDate != "" {
		conditions = append(conditions, fmt.Sprintf("payment_date >= $%d", argCount))
		args = append(args, *filters.FromDate)
		argCount++
	}
	if filters.ToDate != nil && *filters.ToDate != "" {
		conditions = append(conditions, fmt.Sprintf("payment_date <= $%d", argCount))
		args = append(args, *filters.ToDate)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY payment_date DESC, id DESC")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, filters.PageSize)
		argCount++
		if filters.Page > 0 {
			offset := (filters.Page - 1) * filters.PageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying payment records: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var payment models.PaymentRecord
		if err := rows.Scan(
			&payment.ID, &payment.MemberID, &payment.MemberName, &payment.FeeType,
			&payment.Amount, &payment.PaymentDate, &payment.CreatedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning payment record: %v", ErrDatabaseError, err)
		}
		payments = append(payments, payment)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating payment rows: %v", ErrDatabaseError, err)
	}
	return payments, totalCount, nil
}

// GetMonthlyRevenue aggregates the ledger per calendar month, newest first.
func (r *paymentRepository) GetMonthlyRevenue() ([]models.MonthlyRevenue, error) {
	query := `SELECT EXTRACT(YEAR FROM payment_date)::int as year,
	                 EXTRACT(MONTH FROM payment_date)::int as month,
	                 COALESCE(SUM(amount), 0) as total,
	                 COUNT(*) as entries
	          FROM payment_records
	          GROUP BY year, month
	          ORDER BY year DESC, month DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying monthly revenue: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	revenue := []models.MonthlyRevenue{}
	for rows.Next() {
		var row models.MonthlyRevenue
		if err := rows.Scan(&row.Year, &row.Month, &row.Total, &row.Entries); err != nil {
			return nil, fmt.Errorf("%w: scanning monthly revenue row: %v", ErrDatabaseError, err)
		}
		revenue = append(revenue, row)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating monthly revenue rows: %v", ErrDatabaseError, err)
	}
	return revenue, nil
}

// SumForRange sums ledger amounts with payment_date in [from, to].
func (r *paymentRepository) SumForRange(from, to time.Time) (float64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM payment_records
	          WHERE payment_date >= $1 AND payment_date <= $2`

	var total float64
	if err := r.db.QueryRow(query, from, to).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: summing payments: %v", ErrDatabaseError, err)
	}
	return total, nil
}
