package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gym_admin_backend/internal/models"
	"gym_admin_backend/internal/repositories"

	"gym_admin_backend/pkg/utils"
)

// --- Custom Service Errors for Member ---
var (
	ErrMemberNotFound   = errors.New("member not found")
	ErrMemberValidation = errors.New("member data validation error")
	ErrDateFormat       = errors.New("invalid date format, please use YYYY-MM-DD")
	ErrInvalidFeeType   = errors.New("unknown fee type")
	ErrPhoneExists      = errors.New("phone number already exists")
	ErrEmailExists      = errors.New("email already exists")
	ErrNotFrozen        = errors.New("member is not frozen")
	ErrNotDormant       = errors.New("member is not dormant")
	ErrAlreadyDeleted   = errors.New("member is already deleted")
	ErrNotDeleted       = errors.New("member is not deleted")
)

// --- Member DTOs ---

type CreateMemberRequest struct {
	Name        string  `json:"name" binding:"required"`
	Phone       string  `json:"phone" binding:"required"`
	Email       string  `json:"email" binding:"required"`
	Gender      *string `json:"gender"`
	Address     *string `json:"address"`
	FeeType     string  `json:"fee_type" binding:"required"`
	FeePaid     bool    `json:"fee_paid"`
	FeePaidDate *string `json:"fee_paid_date"` // YYYY-MM-DD, defaults to today
	ExpiryDate  *string `json:"expiry_date"`   // YYYY-MM-DD, defaults to fee_paid_date + 30d
}

type UpdateMemberRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Gender  *string `json:"gender"`
	Address *string `json:"address"`
	FeeType *string `json:"fee_type"`
}

// MemberView is a member with its derived display state attached.
type MemberView struct {
	models.Member
	MembershipStatus  string   `json:"membership_status"`
	Category          string   `json:"category"`
	InactivityReasons []string `json:"inactivity_reasons"`
	DueAmount         float64  `json:"due_amount"`
}

// NewMemberView derives the display state for one member.
func NewMemberView(m *models.Member, lastAttendance *time.Time, today time.Time) MemberView {
	return MemberView{
		Member:            *m,
		MembershipStatus:  MembershipStatusOf(m.ExpiryDate, today),
		Category:          CategoryOf(m, lastAttendance, today),
		InactivityReasons: InactivityReasons(m, lastAttendance, today),
		DueAmount:         DueAmount(m, today),
	}
}

// --- MemberService Interface ---
type MemberService interface {
	CreateMember(req CreateMemberRequest) (*models.Member, error)
	GetMemberByID(memberID int64) (*MemberView, error)
	GetMembers(filters models.MemberFilters) ([]MemberView, int, error)
	UpdateMember(memberID int64, req UpdateMemberRequest) (*models.Member, error)
	MarkAsPaid(memberID int64) (*models.Member, error)
	Freeze(memberID int64) (*models.Member, error)
	Unfreeze(memberID int64) (*models.Member, error)
	MarkDormant(memberID int64) (*models.Member, error)
	Activate(memberID int64) (*models.Member, error)
	SoftDelete(memberID int64) (*models.Member, error)
	Restore(memberID int64) (*models.Member, error)
	PermanentlyDelete(memberID int64) error
}

// --- memberService Implementation ---
type memberService struct {
	memberRepo     repositories.MemberRepository
	attendanceRepo repositories.AttendanceRepository
	paymentRepo    repositories.PaymentRepository
	db             *sql.DB
	notifier       *Notifier
	now            func() time.Time
}

// NewMemberService creates a new instance of MemberService.
func NewMemberService(memberRepo repositories.MemberRepository, attendanceRepo repositories.AttendanceRepository,
	paymentRepo repositories.PaymentRepository, db *sql.DB, notifier *Notifier) MemberService {
	return &memberService{
		memberRepo:     memberRepo,
		attendanceRepo: attendanceRepo,
		paymentRepo:    paymentRepo,
		db:             db,
		notifier:       notifier,
		now:            time.Now,
	}
}

func (s *memberService) validateContact(name, phone, email string) error {
	if utils.IsEmpty(name) {
		return fmt.Errorf("%w: name cannot be empty", ErrMemberValidation)
	}
	if utils.IsEmpty(phone) {
		return fmt.Errorf("%w: phone cannot be empty", ErrMemberValidation)
	}
	if utils.IsEmpty(email) {
		return fmt.Errorf("%w: email cannot be empty", ErrMemberValidation)
	}
	if !utils.IsValidEmail(email) {
		return fmt.Errorf("%w: email format is invalid", ErrMemberValidation)
	}
	return nil
}

func parseDate(dateStr string) (time.Time, error) {
	parsed, err := time.Parse("2006-01-02", strings.TrimSpace(dateStr))
	if err != nil {
		return time.Time{}, ErrDateFormat
	}
	return parsed, nil
}

func mapDuplicateKey(err error) error {
	if strings.Contains(err.Error(), "members_phone_key") {
		return ErrPhoneExists
	}
	if strings.Contains(err.Error(), "members_email_key") {
		return ErrEmailExists
	}
	return fmt.Errorf("member conflicts with existing data: %w", err)
}

// CreateMember validates the input, assigns tariff and dates, and persists the
// member. If the member is created already paid, the initial payment ledger
// entry is appended in the same transaction.
func (s *memberService) CreateMember(req CreateMemberRequest) (*models.Member, error) {
	if err := s.validateContact(req.Name, req.Phone, req.Email); err != nil {
		return nil, err
	}

	tariff, ok := models.FeeTariffs[req.FeeType]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidFeeType, req.FeeType)
	}

	today := truncateToDay(s.now())
	feePaidDate := today
	if req.FeePaidDate != nil && *req.FeePaidDate != "" {
		parsed, err := parseDate(*req.FeePaidDate)
		if err != nil {
			return nil, err
		}
		feePaidDate = truncateToDay(parsed)
	}

	expiryDate := feePaidDate.AddDate(0, 0, renewalPeriod)
	if req.ExpiryDate != nil && *req.ExpiryDate != "" {
		parsed, err := parseDate(*req.ExpiryDate)
		if err != nil {
			return nil, err
		}
		expiryDate = truncateToDay(parsed)
	}
	if expiryDate.Before(feePaidDate) {
		return nil, fmt.Errorf("%w: expiry date cannot precede fee paid date", ErrMemberValidation)
	}

	feeStatus := models.FeeStatusUnpaid
	if req.FeePaid {
		feeStatus = models.FeeStatusPaid
	}

	member := &models.Member{
		Name:        strings.TrimSpace(req.Name),
		Phone:       strings.TrimSpace(req.Phone),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Gender:      req.Gender,
		Address:     req.Address,
		FeeType:     req.FeeType,
		FeeAmount:   tariff,
		FeePaid:     req.FeePaid,
		FeePaidDate: feePaidDate,
		ExpiryDate:  expiryDate,
		FeeStatus:   feeStatus,
		Status:      models.FeeStatusActive,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction for member creation: %w", err)
	}
	defer tx.Rollback()

	id, err := s.memberRepo.CreateMember(tx, member)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, mapDuplicateKey(err)
		}
		return nil, fmt.Errorf("failed to create member in repository: %w", err)
	}

	if req.FeePaid {
		payment := models.PaymentRecord{
			MemberID:    id,
			MemberName:  member.Name,
			FeeType:     member.FeeType,
			Amount:      member.FeeAmount,
			PaymentDate: feePaidDate,
		}
		if _, err := s.paymentRepo.AppendPayment(tx, &payment); err != nil {
			return nil, fmt.Errorf("failed to record initial payment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit member creation: %w", err)
	}

	s.notifier.Publish(TopicMembers)
	return s.getExisting(id)
}

func (s *memberService) getExisting(memberID int64) (*models.Member, error) {
	member, err := s.memberRepo.GetMemberByID(memberID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member by ID: %w", err)
	}
	return member, nil
}

func (s *memberService) GetMemberByID(memberID int64) (*MemberView, error) {
	member, err := s.getExisting(memberID)
	if err != nil {
		return nil, err
	}
	lastAttendance, err := s.attendanceRepo.GetLatestDate(memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance for member: %w", err)
	}
	view := NewMemberView(member, lastAttendance, s.now())
	return &view, nil
}

// GetMembers lists members with derived state. With no category filter the
// page comes straight from the store; a category filter needs the computed
// classification, so the full set is fetched and filtered here.
func (s *memberService) GetMembers(filters models.MemberFilters) ([]MemberView, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 10
	}

	category := ""
	if filters.Category != nil {
		category = strings.ToLower(strings.TrimSpace(*filters.Category))
	}
	includeDeleted := category == CategoryDeleted

	page, pageSize := filters.Page, filters.PageSize
	if category != "" {
		// classification happens in memory, so fetch everything
		page, pageSize = 0, 0
	}

	members, totalCount, err := s.memberRepo.GetMembers(includeDeleted, filters.Search, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get members: %w", err)
	}

	latestDates, err := s.attendanceRepo.GetLatestDates()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get attendance dates: %w", err)
	}

	today := s.now()
	views := make([]MemberView, 0, len(members))
	for i := range members {
		var lastAttendance *time.Time
		if date, ok := latestDates[members[i].ID]; ok {
			lastAttendance = &date
		}
		view := NewMemberView(&members[i], lastAttendance, today)
		if category != "" && !matchesCategory(&view, category) {
			continue
		}
		views = append(views, view)
	}

	if category != "" {
		totalCount = len(views)
		views = paginateViews(views, filters.Page, filters.PageSize)
	}

	return views, totalCount, nil
}

// matchesCategory applies the list-filter semantics. "frozen" is a filter on
// the explicit fee status, not a category of its own, and deleted members show
// up only under the deleted filter.
func matchesCategory(view *MemberView, category string) bool {
	switch category {
	case CategoryFrozen:
		return !view.IsDeleted() && view.FeeStatus == models.FeeStatusFreeze
	case CategoryDeleted:
		return view.IsDeleted()
	default:
		return view.Category == category
	}
}

func paginateViews(views []MemberView, page, pageSize int) []MemberView {
	start := (page - 1) * pageSize
	if start >= len(views) {
		return []MemberView{}
	}
	end := start + pageSize
	if end > len(views) {
		end = len(views)
	}
	return views[start:end]
}

func (s *memberService) UpdateMember(memberID int64, req UpdateMemberRequest) (*models.Member, error) {
	member, err := s.getExisting(memberID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		member.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		member.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		member.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Gender != nil {
		member.Gender = req.Gender
	}
	if req.Address != nil {
		member.Address = req.Address
	}
	if req.FeeType != nil {
		tariff, ok := models.FeeTariffs[*req.FeeType]
		if !ok {
			return nil, fmt.Errorf("%w: '%s'", ErrInvalidFeeType, *req.FeeType)
		}
		member.FeeType = *req.FeeType
		member.FeeAmount = tariff
	}

	if err := s.validateContact(member.Name, member.Phone, member.Email); err != nil {
		return nil, err
	}

	if err := s.persist(member); err != nil {
		return nil, err
	}
	return member, nil
}

// persist writes the full record back and publishes the member change.
func (s *memberService) persist(member *models.Member) error {
	err := s.memberRepo.UpdateMember(s.db, member)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return mapDuplicateKey(err)
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to update member in repository: %w", err)
	}
	s.notifier.Publish(TopicMembers)
	return nil
}

// MarkAsPaid performs the renewal transition: the member update and the payment
// ledger append commit as one transaction, so the two records cannot diverge.
func (s *memberService) MarkAsPaid(memberID int64) (*models.Member, error) {
	member, err := s.getExisting(memberID)
	if err != nil {
		return nil, err
	}

	payment := applyRenewal(member, s.now())

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin renewal transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.memberRepo.UpdateMember(tx, member); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to apply renewal: %w", err)
	}
	if _, err := s.paymentRepo.AppendPayment(tx, &payment); err != nil {
		return nil, fmt.Errorf("failed to append renewal payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit renewal: %w", err)
	}

	s.notifier.Publish(TopicMembers)
	return member, nil
}

func (s *memberService) Freeze(memberID int64) (*models.Member, error) {
	member, err := s.getExisting(memberID)
	if err != nil {
		return nil, err
	}
	if member.IsDeleted() {
		return nil, ErrAlreadyDeleted
	}
	applyFreeze(member, s.now())
	if err := s.persist(member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *memberService) Unfreeze(memberID int64) (*models.Member, error) {
	member, err := s.getExisting(memberID)
	if err != nil {
		return nil, err
	}
	if member.FeeStatus != models.FeeStatusFreeze {
		return nil, ErrNotFrozen
	}
	applyUnfreeze(member)
	if err := s.persist(member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *memberService) MarkDormant(memberID int64) (*models.Member, error) {
	member, err := s.getExisting(memberID)
	if err != nil {
		return nil, err
	}
	if member.IsDeleted() {
		return nil, ErrAlreadyDeleted
	}
	applyDormant(member)
	if err := s.persist(member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *memberService) Activate(memberID int64) (*models.Member, error) {
	member, err := s.getExisting(memberID)
	if err != nil {
		return nil, err
	}
	if member.FeeStatus != models.FeeStatusDormant {
		return nil, ErrNotDormant
	}
	applyActivate(member)
	if err := s.persist(member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *memberService) SoftDelete(memberID int64) (*models.Member, error) {
	member, err := s.getExisting(memberID)
	if err != nil {
		return nil, err
	}
	if member.IsDeleted() {
		return nil, ErrAlreadyDeleted
	}
	applySoftDelete(member, s.now())
	if err := s.persist(member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *memberService) Restore(memberID int64) (*models.Member, error) {
	member, err := s.getExisting(memberID)
	if err != nil {
		return nil, err
	}
	if !member.IsDeleted() {
		return nil, ErrNotDeleted
	}
	applyRestore(member)
	if err := s.persist(member); err != nil {
		return nil, err
	}
	return member, nil
}

// PermanentlyDelete removes the member row. Attendance and payment rows are
// left in place so historical revenue and visit counts keep reporting.
func (s *memberService) PermanentlyDelete(memberID int64) error {
	err := s.memberRepo.HardDeleteMember(s.db, memberID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to permanently delete member: %w", err)
	}
	s.notifier.Publish(TopicMembers)
	return nil
}
