package services

import (
	"sort"
	"strings"
	"time"

	"gym_admin_backend/internal/models"
	"gym_admin_backend/internal/repositories"
)

// In-memory fakes for the repository interfaces. They store copies so the
// services' in-place mutations only become visible after an explicit update.

type fakeMemberRepo struct {
	members map[int64]models.Member
	nextID  int64
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: make(map[int64]models.Member)}
}

func (f *fakeMemberRepo) CreateMember(_ repositories.SQLExecutor, member *models.Member) (int64, error) {
	f.nextID++
	member.ID = f.nextID
	if member.CreatedAt.IsZero() {
		member.CreatedAt = time.Now()
	}
	f.members[member.ID] = *member
	return member.ID, nil
}

func (f *fakeMemberRepo) GetMemberByID(id int64) (*models.Member, error) {
	member, ok := f.members[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := member
	return &copied, nil
}

func (f *fakeMemberRepo) GetMembers(includeDeleted bool, searchTerm *string, page, pageSize int) ([]models.Member, int, error) {
	result := []models.Member{}
	for _, member := range f.members {
		if !includeDeleted && member.DeletedAt != nil {
			continue
		}
		if searchTerm != nil && *searchTerm != "" &&
			!strings.Contains(strings.ToLower(member.Name), strings.ToLower(*searchTerm)) {
			continue
		}
		result = append(result, member)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, len(result), nil
}

func (f *fakeMemberRepo) UpdateMember(_ repositories.SQLExecutor, member *models.Member) error {
	if _, ok := f.members[member.ID]; !ok {
		return repositories.ErrNotFound
	}
	f.members[member.ID] = *member
	return nil
}

func (f *fakeMemberRepo) HardDeleteMember(_ repositories.SQLExecutor, id int64) error {
	if _, ok := f.members[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.members, id)
	return nil
}

type fakeAttendanceRepo struct {
	records []models.AttendanceRecord
	nextID  int64
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{}
}

func (f *fakeAttendanceRepo) AppendRecord(_ repositories.SQLExecutor, record *models.AttendanceRecord) (int64, error) {
	f.nextID++
	record.ID = f.nextID
	f.records = append(f.records, *record)
	return record.ID, nil
}

func (f *fakeAttendanceRepo) GetRecordForDay(memberID int64, day time.Time) (*models.AttendanceRecord, error) {
	for i := range f.records {
		if f.records[i].MemberID == memberID && f.records[i].Date.Equal(day) {
			copied := f.records[i]
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeAttendanceRepo) GetLatestDate(memberID int64) (*time.Time, error) {
	var latest *time.Time
	for i := range f.records {
		if f.records[i].MemberID != memberID {
			continue
		}
		date := f.records[i].Date
		if latest == nil || date.After(*latest) {
			latest = &date
		}
	}
	return latest, nil
}

func (f *fakeAttendanceRepo) GetLatestDates() (map[int64]time.Time, error) {
	latest := make(map[int64]time.Time)
	for i := range f.records {
		record := f.records[i]
		if existing, ok := latest[record.MemberID]; !ok || record.Date.After(existing) {
			latest[record.MemberID] = record.Date
		}
	}
	return latest, nil
}

func (f *fakeAttendanceRepo) GetRecordsByMember(memberID int64, page, pageSize int) ([]models.AttendanceRecord, int, error) {
	result := []models.AttendanceRecord{}
	for i := range f.records {
		if f.records[i].MemberID == memberID {
			result = append(result, f.records[i])
		}
	}
	return result, len(result), nil
}

func (f *fakeAttendanceRepo) GetSheetForDay(day time.Time) ([]models.AttendanceEntry, error) {
	entries := []models.AttendanceEntry{}
	for i := range f.records {
		if f.records[i].Date.Equal(day) {
			entries = append(entries, models.AttendanceEntry{AttendanceRecord: f.records[i]})
		}
	}
	return entries, nil
}

func (f *fakeAttendanceRepo) CountForDay(day time.Time) (int, error) {
	count := 0
	for i := range f.records {
		if f.records[i].Date.Equal(day) {
			count++
		}
	}
	return count, nil
}

type fakePaymentRepo struct {
	payments  []models.PaymentRecord
	nextID    int64
	appendErr error // when set, AppendPayment fails with it
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{}
}

func (f *fakePaymentRepo) AppendPayment(_ repositories.SQLExecutor, payment *models.PaymentRecord) (int64, error) {
	if f.appendErr != nil {
		return 0, f.appendErr
	}
	f.nextID++
	payment.ID = f.nextID
	f.payments = append(f.payments, *payment)
	return payment.ID, nil
}

func (f *fakePaymentRepo) GetPayments(filters models.PaymentFilters) ([]models.PaymentRecord, int, error) {
	result := []models.PaymentRecord{}
	for i := range f.payments {
		if filters.MemberID != nil && f.payments[i].MemberID != *filters.MemberID {
			continue
		}
		result = append(result, f.payments[i])
	}
	return result, len(result), nil
}

func (f *fakePaymentRepo) GetMonthlyRevenue() ([]models.MonthlyRevenue, error) {
	return []models.MonthlyRevenue{}, nil
}

func (f *fakePaymentRepo) SumForRange(from, to time.Time) (float64, error) {
	total := 0.0
	for i := range f.payments {
		date := f.payments[i].PaymentDate
		if !date.Before(from) && !date.After(to) {
			total += f.payments[i].Amount
		}
	}
	return total, nil
}
