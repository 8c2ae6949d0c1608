package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gym_admin_backend/internal/models"
	"gym_admin_backend/internal/repositories"
)

// ErrMembershipExpired is returned when a check-in is attempted against an
// expired membership. Callers must be able to distinguish it from the safe
// "already checked in" no-op.
var ErrMembershipExpired = errors.New("membership has expired")

// --- AttendanceService Interface ---
type AttendanceService interface {
	AttemptCheckIn(memberID int64) (*models.CheckInResult, error)
	GetSheetForDate(dateStr string) ([]models.AttendanceEntry, error)
	GetMemberHistory(memberID int64, page, pageSize int) ([]models.AttendanceRecord, int, error)
	CountVisitorsToday() (int, error)
}

// --- attendanceService Implementation ---
type attendanceService struct {
	memberRepo     repositories.MemberRepository
	attendanceRepo repositories.AttendanceRepository
	db             *sql.DB
	notifier       *Notifier
	now            func() time.Time
}

// NewAttendanceService creates a new instance of AttendanceService.
func NewAttendanceService(memberRepo repositories.MemberRepository, attendanceRepo repositories.AttendanceRepository,
	db *sql.DB, notifier *Notifier) AttendanceService {
	return &attendanceService{
		memberRepo:     memberRepo,
		attendanceRepo: attendanceRepo,
		db:             db,
		notifier:       notifier,
		now:            time.Now,
	}
}

// AttemptCheckIn admits or rejects a check-in. Preconditions in order: the
// member must exist and not be soft-deleted; a repeat check-in on the same day
// is an idempotent no-op; an expired membership is rejected. Frozen, dormant
// and unpaid members are admitted; only expiry blocks the door.
//
// The duplicate check is read-then-write with no lock. Two truly concurrent
// check-ins for the same member could slip through; the desk is a single
// session, so that race is accepted.
func (s *attendanceService) AttemptCheckIn(memberID int64) (*models.CheckInResult, error) {
	member, err := s.memberRepo.GetMemberByID(memberID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to look up member for check-in: %w", err)
	}
	if member.IsDeleted() {
		return nil, ErrMemberNotFound
	}

	nowTime := s.now()
	today := truncateToDay(nowTime)

	_, err = s.attendanceRepo.GetRecordForDay(memberID, today)
	if err == nil {
		return &models.CheckInResult{Marked: false}, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing attendance: %w", err)
	}

	if MembershipStatusOf(member.ExpiryDate, nowTime) == models.MembershipExpired {
		return nil, ErrMembershipExpired
	}

	record := &models.AttendanceRecord{
		MemberID:    memberID,
		Date:        today,
		CheckInTime: nowTime,
	}
	if _, err := s.attendanceRepo.AppendRecord(s.db, record); err != nil {
		return nil, fmt.Errorf("failed to append attendance record: %w", err)
	}

	s.notifier.Publish(TopicAttendance)
	return &models.CheckInResult{Marked: true}, nil
}

// GetSheetForDate returns the attendance sheet for a day (default today).
func (s *attendanceService) GetSheetForDate(dateStr string) ([]models.AttendanceEntry, error) {
	day := truncateToDay(s.now())
	if dateStr != "" {
		parsed, err := parseDate(dateStr)
		if err != nil {
			return nil, err
		}
		day = truncateToDay(parsed)
	}
	entries, err := s.attendanceRepo.GetSheetForDay(day)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance sheet: %w", err)
	}
	return entries, nil
}

// GetMemberHistory returns a member's check-in history, newest first.
func (s *attendanceService) GetMemberHistory(memberID int64, page, pageSize int) ([]models.AttendanceRecord, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 31
	}
	if _, err := s.memberRepo.GetMemberByID(memberID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, 0, ErrMemberNotFound
		}
		return nil, 0, fmt.Errorf("failed to look up member: %w", err)
	}
	records, total, err := s.attendanceRepo.GetRecordsByMember(memberID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get attendance history: %w", err)
	}
	return records, total, nil
}

// CountVisitorsToday returns the number of distinct check-ins today.
func (s *attendanceService) CountVisitorsToday() (int, error) {
	count, err := s.attendanceRepo.CountForDay(truncateToDay(s.now()))
	if err != nil {
		return 0, fmt.Errorf("failed to count today's visitors: %w", err)
	}
	return count, nil
}
