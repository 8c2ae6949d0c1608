package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gym_admin_backend/internal/models"
)

// AttendanceRepository defines the interface for the check-in ledger.
// Records are write-once; the engine never mutates or deletes them.
type AttendanceRepository interface {
	AppendRecord(executor SQLExecutor, record *models.AttendanceRecord) (int64, error)
	GetRecordForDay(memberID int64, day time.Time) (*models.AttendanceRecord, error)
	GetLatestDate(memberID int64) (*time.Time, error)
	GetLatestDates() (map[int64]time.Time, error)
	GetRecordsByMember(memberID int64, page, pageSize int) ([]models.AttendanceRecord, int, error)
	GetSheetForDay(day time.Time) ([]models.AttendanceEntry, error)
	CountForDay(day time.Time) (int, error)
}

type attendanceRepository struct {
	db *sql.DB
}

// NewAttendanceRepository creates a new instance of AttendanceRepository.
func NewAttendanceRepository(db *sql.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

// AppendRecord inserts a check-in record. Uniqueness per (member, day) is the
// admission control's responsibility, checked right before this call.
func (r *attendanceRepository) AppendRecord(executor SQLExecutor, record *models.AttendanceRecord) (int64, error) {
	query := `INSERT INTO attendance_records (member_id, date, check_in_time)
	          VALUES ($1, $2, $3)
	          RETURNING id`

	err := executor.QueryRow(query, record.MemberID, record.Date, record.CheckInTime).Scan(&record.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: appending attendance record: %v", ErrDatabaseError, err)
	}
	return record.ID, nil
}

// GetRecordForDay retrieves the check-in for a member on a given day, if any.
func (r *attendanceRepository) GetRecordForDay(memberID int64, day time.Time) (*models.AttendanceRecord, error) {
	record := &models.AttendanceRecord{}
	query := `SELECT id, member_id, date, check_in_time FROM attendance_records
	          WHERE member_id = $1 AND date = $2`

	err := r.db.QueryRow(query, memberID, day).Scan(
		&record.ID, &record.MemberID, &record.Date, &record.CheckInTime,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting attendance for member %d: %v", ErrDatabaseError, memberID, err)
	}
	return record, nil
}

// GetLatestDate returns the most recent check-in date for a member, or nil
// when the member has never checked in.
func (r *attendanceRepository) GetLatestDate(memberID int64) (*time.Time, error) {
	query := `SELECT MAX(date) FROM attendance_records WHERE member_id = $1`

	var latest sql.NullTime
	if err := r.db.QueryRow(query, memberID).Scan(&latest); err != nil {
		return nil, fmt.Errorf("%w: getting latest attendance for member %d: %v", ErrDatabaseError, memberID, err)
	}
	if !latest.Valid {
		return nil, nil
	}
	return &latest.Time, nil
}

// GetLatestDates returns the most recent check-in date per member, for bulk
// classification of member lists.
func (r *attendanceRepository) GetLatestDates() (map[int64]time.Time, error) {
	query := `SELECT member_id, MAX(date) FROM attendance_records GROUP BY member_id`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying latest attendance dates: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	latest := make(map[int64]time.Time)
	for rows.Next() {
		var memberID int64
		var date time.Time
		if err := rows.Scan(&memberID, &date); err != nil {
			return nil, fmt.Errorf("%w: scanning latest attendance date: %v", ErrDatabaseError, err)
		}
		latest[memberID] = date
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating latest attendance dates: %v", ErrDatabaseError, err)
	}
	return latest, nil
}

// GetRecordsByMember retrieves a member's check-in history, newest first.
func (r *attendanceRepository) GetRecordsByMember(memberID int64, page, pageSize int) ([]models.AttendanceRecord, int, error) {
	records := []models.AttendanceRecord{}
	totalCount := 0

	query := `SELECT id, member_id, date, check_in_time, COUNT(*) OVER() as total_count
	          FROM attendance_records WHERE member_id = $1
	          ORDER BY date DESC`
	args := []interface{}{memberID}

	if pageSize > 0 {
		query += ` LIMIT $2`
		args = append(args, pageSize)
		if page > 0 {
			query += ` OFFSET $3`
			args = append(args, (page-1)*pageSize)
		}
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying attendance for member %d: %v", ErrDatabaseError, memberID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var record models.AttendanceRecord
		if err := rows.Scan(&record.ID, &record.MemberID, &record.Date, &record.CheckInTime, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning attendance record: %v", ErrDatabaseError, err)
		}
		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating attendance rows: %v", ErrDatabaseError, err)
	}
	return records, totalCount, nil
}

// GetSheetForDay retrieves all check-ins for a day with member names attached.
// Members deleted after checking in still appear, with the name column empty.
func (r *attendanceRepository) GetSheetForDay(day time.Time) ([]models.AttendanceEntry, error) {
	query := `SELECT a.id, a.member_id, a.date, a.check_in_time, COALESCE(m.name, '') as member_name
	          FROM attendance_records a
	          LEFT JOIN members m ON a.member_id = m.id
	          WHERE a.date = $1
	          ORDER BY a.check_in_time ASC`

	rows, err := r.db.Query(query, day)
	if err != nil {
		return nil, fmt.Errorf("%w: querying attendance sheet: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	entries := []models.AttendanceEntry{}
	for rows.Next() {
		var entry models.AttendanceEntry
		if err := rows.Scan(&entry.ID, &entry.MemberID, &entry.Date, &entry.CheckInTime, &entry.MemberName); err != nil {
			return nil, fmt.Errorf("%w: scanning attendance entry: %v", ErrDatabaseError, err)
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating attendance entries: %v", ErrDatabaseError, err)
	}
	return entries, nil
}

// CountForDay returns the number of check-ins on a given day.
func (r *attendanceRepository) CountForDay(day time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM attendance_records WHERE date = $1`

	var count int
	if err := r.db.QueryRow(query, day).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting attendance for day: %v", ErrDatabaseError, err)
	}
	return count, nil
}
