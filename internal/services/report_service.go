package services

import (
	"fmt"
	"time"

	"gym_admin_backend/internal/models"
	"gym_admin_backend/internal/repositories"
)

// --- ReportService Interface ---
type ReportService interface {
	GetPayments(filters models.PaymentFilters) ([]models.PaymentRecord, int, error)
	GetMonthlyRevenue() ([]models.MonthlyRevenue, error)
	GetDueReport() ([]models.DueEntry, float64, error)
	GetCategoryCounts() (*models.CategoryCounts, error)
	GetDashboardSummary() (*models.DashboardSummary, error)
}

// --- reportService Implementation ---
type reportService struct {
	memberRepo     repositories.MemberRepository
	attendanceRepo repositories.AttendanceRepository
	paymentRepo    repositories.PaymentRepository
	now            func() time.Time
}

// NewReportService creates a new instance of ReportService.
func NewReportService(memberRepo repositories.MemberRepository, attendanceRepo repositories.AttendanceRepository,
	paymentRepo repositories.PaymentRepository) ReportService {
	return &reportService{
		memberRepo:     memberRepo,
		attendanceRepo: attendanceRepo,
		paymentRepo:    paymentRepo,
		now:            time.Now,
	}
}

func (s *reportService) GetPayments(filters models.PaymentFilters) ([]models.PaymentRecord, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}
	payments, total, err := s.paymentRepo.GetPayments(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get payments: %w", err)
	}
	return payments, total, nil
}

func (s *reportService) GetMonthlyRevenue() ([]models.MonthlyRevenue, error) {
	revenue, err := s.paymentRepo.GetMonthlyRevenue()
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly revenue: %w", err)
	}
	return revenue, nil
}

// classifyAll fetches all live members with their latest attendance and
// derives each one's view. Deleted members are included so the counters can
// report them.
func (s *reportService) classifyAll() ([]MemberView, error) {
	members, _, err := s.memberRepo.GetMembers(true, nil, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	latestDates, err := s.attendanceRepo.GetLatestDates()
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance dates: %w", err)
	}

	today := s.now()
	views := make([]MemberView, 0, len(members))
	for i := range members {
		var lastAttendance *time.Time
		if date, ok := latestDates[members[i].ID]; ok {
			lastAttendance = &date
		}
		views = append(views, NewMemberView(&members[i], lastAttendance, today))
	}
	return views, nil
}

// GetDueReport lists every non-deleted member with outstanding dues.
func (s *reportService) GetDueReport() ([]models.DueEntry, float64, error) {
	views, err := s.classifyAll()
	if err != nil {
		return nil, 0, err
	}

	entries := []models.DueEntry{}
	total := 0.0
	for i := range views {
		if views[i].IsDeleted() || views[i].DueAmount <= 0 {
			continue
		}
		entries = append(entries, models.DueEntry{
			MemberID:   views[i].ID,
			MemberName: views[i].Name,
			FeeType:    views[i].FeeType,
			DueAmount:  views[i].DueAmount,
		})
		total += views[i].DueAmount
	}
	return entries, total, nil
}

func (s *reportService) GetCategoryCounts() (*models.CategoryCounts, error) {
	views, err := s.classifyAll()
	if err != nil {
		return nil, err
	}

	counts := &models.CategoryCounts{Total: len(views)}
	for i := range views {
		switch views[i].Category {
		case CategoryDeleted:
			counts.Deleted++
			continue
		case CategoryDormant:
			counts.Dormant++
		case CategoryInactive:
			counts.Inactive++
		case CategoryActive:
			counts.Active++
		}
		// frozen is a badge, not a category: counted alongside
		if views[i].FeeStatus == models.FeeStatusFreeze {
			counts.Frozen++
		}
	}
	return counts, nil
}

func (s *reportService) GetDashboardSummary() (*models.DashboardSummary, error) {
	counts, err := s.GetCategoryCounts()
	if err != nil {
		return nil, err
	}

	today := truncateToDay(s.now())
	visitors, err := s.attendanceRepo.CountForDay(today)
	if err != nil {
		return nil, fmt.Errorf("failed to count today's visitors: %w", err)
	}

	revenueToday, err := s.paymentRepo.SumForRange(today, today)
	if err != nil {
		return nil, fmt.Errorf("failed to sum today's revenue: %w", err)
	}

	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	revenueMonth, err := s.paymentRepo.SumForRange(monthStart, today)
	if err != nil {
		return nil, fmt.Errorf("failed to sum this month's revenue: %w", err)
	}

	_, totalDue, err := s.GetDueReport()
	if err != nil {
		return nil, err
	}

	return &models.DashboardSummary{
		Members:        *counts,
		VisitorsToday:  visitors,
		RevenueToday:   revenueToday,
		RevenueMonth:   revenueMonth,
		TotalDueAmount: totalDue,
	}, nil
}
