package models

import "time"

// Fee plan identifiers. Each plan carries a fixed tariff; ONE_DAY is a walk-in pass.
const (
	FeeTypeWithoutAC = "WITHOUT_AC"
	FeeTypeWithAC    = "WITH_AC"
	FeeTypeOneDay    = "ONE_DAY"
)

// FeeTariffs maps a fee type to its fixed monthly (or single-visit) tariff.
var FeeTariffs = map[string]float64{
	FeeTypeWithoutAC: 1000,
	FeeTypeWithAC:    1500,
	FeeTypeOneDay:    100,
}

// Fee status values stored on the member row. Paid/Unpaid track billing,
// Active/Inactive/Freeze/Dormant track operator-set lifecycle state. The
// free-text Status field overlaps with this enum; both are written by the
// lifecycle transitions and the pair is accepted as redundant.
const (
	FeeStatusPaid     = "Paid"
	FeeStatusUnpaid   = "Unpaid"
	FeeStatusActive   = "Active"
	FeeStatusInactive = "Inactive"
	FeeStatusFreeze   = "Freeze"
	FeeStatusDormant  = "Dormant"
)

// Membership status derived from the expiry date alone (see services.MembershipStatusOf).
const (
	MembershipActive   = "Active"
	MembershipExpiring = "Expiring"
	MembershipExpired  = "Expired"
)

// Member represents one gym participant.
type Member struct {
	ID          int64      `json:"id" db:"id"`
	Name        string     `json:"name" db:"name" binding:"required"`
	Phone       string     `json:"phone" db:"phone" binding:"required"`
	Email       string     `json:"email" db:"email" binding:"required"`
	Gender      *string    `json:"gender,omitempty" db:"gender"`
	Address     *string    `json:"address,omitempty" db:"address"`
	FeeType     string     `json:"fee_type" db:"fee_type"`
	FeeAmount   float64    `json:"fee_amount" db:"fee_amount"`
	FeePaid     bool       `json:"fee_paid" db:"fee_paid"`
	FeePaidDate time.Time  `json:"fee_paid_date" db:"fee_paid_date"`
	ExpiryDate  time.Time  `json:"expiry_date" db:"expiry_date"`
	FeeStatus   string     `json:"fee_status" db:"fee_status"`
	Status      string     `json:"status" db:"status"`
	FrozenDate  *time.Time `json:"frozen_date,omitempty" db:"frozen_date"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// IsDeleted reports whether the member is soft-deleted and therefore hidden
// from default listings.
func (m *Member) IsDeleted() bool {
	return m.DeletedAt != nil
}

// MemberFilters defines the available filters for querying members.
type MemberFilters struct {
	Category *string `form:"category"` // active | inactive | dormant | frozen | deleted
	Search   *string `form:"search"`
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
}
