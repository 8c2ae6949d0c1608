package services

import (
	"time"

	"gym_admin_backend/internal/models"
)

// Inactivity reasons. A member's reason set can contain any combination; the
// UI renders each one as an independent badge.
const (
	ReasonUnpaid       = "Unpaid"
	ReasonExpired      = "Expired"
	ReasonFrozen       = "Frozen"
	ReasonNoAttendance = "No Attendance"
)

// Member categories used by list filters and the dashboard counters.
const (
	CategoryActive   = "active"
	CategoryInactive = "inactive"
	CategoryDormant  = "dormant"
	CategoryFrozen   = "frozen"
	CategoryDeleted  = "deleted"
)

// dormancyWindow is the sliding attendance gap after which a member is
// considered dormant.
const dormancyWindow = 30 // days

// truncateToDay strips the time-of-day component; all classification runs at
// day granularity.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween returns the whole number of calendar days from a to b, negative
// when b precedes a. Each argument's calendar date is read in its own location
// before subtracting, so a DATE column scanned as UTC midnight and a local
// server clock land on the same day arithmetic.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// MembershipStatusOf classifies the expiry date against today. Pure and total:
// the result depends only on the day delta between the two dates.
func MembershipStatusOf(expiryDate, today time.Time) string {
	delta := daysBetween(today, expiryDate)
	switch {
	case delta < 0:
		return models.MembershipExpired
	case delta <= 3:
		return models.MembershipExpiring
	default:
		return models.MembershipActive
	}
}

// DueAmount returns the member's billing exposure. An expired membership owes
// the full renewal fee regardless of the paid flag.
func DueAmount(m *models.Member, today time.Time) float64 {
	if MembershipStatusOf(m.ExpiryDate, today) == models.MembershipExpired {
		return m.FeeAmount
	}
	if m.FeePaid {
		return 0
	}
	return m.FeeAmount
}

// IsDormant reports whether the member has had no activity for the dormancy
// window. With no attendance at all the window runs from the creation date,
// otherwise from the most recent check-in. The rule is a sliding window: it
// re-evaluates on every call, so a member can move in and out of computed
// dormancy purely by the passage of time.
func IsDormant(m *models.Member, lastAttendance *time.Time, today time.Time) bool {
	anchor := m.CreatedAt
	if lastAttendance != nil {
		anchor = *lastAttendance
	}
	return daysBetween(anchor, today) >= dormancyWindow
}

// InactivityReasons evaluates the four inactivity conditions independently and
// returns every one that holds. Classifiers never return errors; the input is
// expected to be an already-validated record.
//
// The "No Attendance" reason only fires while the current billing cycle
// (fee-paid date to today) is still shorter than the dormancy window; past
// that point the member is classified dormant instead, not double-flagged.
func InactivityReasons(m *models.Member, lastAttendance *time.Time, today time.Time) []string {
	reasons := []string{}

	if !m.FeePaid || DueAmount(m, today) > 0 {
		reasons = append(reasons, ReasonUnpaid)
	}
	if MembershipStatusOf(m.ExpiryDate, today) == models.MembershipExpired {
		reasons = append(reasons, ReasonExpired)
	}
	if m.FeeStatus == models.FeeStatusFreeze {
		reasons = append(reasons, ReasonFrozen)
	}

	// The cycle must have run at least a day: a member who paid this morning
	// is not flagged for not having shown up yet.
	cycleDays := daysBetween(m.FeePaidDate, today)
	attendedThisCycle := lastAttendance != nil && !truncateToDay(*lastAttendance).Before(truncateToDay(m.FeePaidDate))
	if !attendedThisCycle && cycleDays > 0 && cycleDays < dormancyWindow {
		reasons = append(reasons, ReasonNoAttendance)
	}

	return reasons
}

// CategoryOf places a member in exactly one category. Precedence: deleted
// members are excluded from everything else; an explicit frozen state wins
// over computed dormancy; dormant (explicit or computed) is excluded from
// inactive even when other reasons apply; otherwise a non-empty reason set
// makes the member inactive.
func CategoryOf(m *models.Member, lastAttendance *time.Time, today time.Time) string {
	if m.IsDeleted() {
		return CategoryDeleted
	}
	if m.FeeStatus != models.FeeStatusFreeze {
		if m.FeeStatus == models.FeeStatusDormant || IsDormant(m, lastAttendance, today) {
			return CategoryDormant
		}
	}
	if len(InactivityReasons(m, lastAttendance, today)) > 0 {
		return CategoryInactive
	}
	return CategoryActive
}
