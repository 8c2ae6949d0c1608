package models

import "time"

// PaymentRecord is an append-only ledger entry created as a side effect of a
// renewal or initial payment. MemberName is a snapshot taken at payment time,
// not a live reference, so revenue history survives member deletion.
type PaymentRecord struct {
	ID          int64     `json:"id" db:"id"`
	MemberID    int64     `json:"member_id" db:"member_id"`
	MemberName  string    `json:"member_name" db:"member_name"`
	FeeType     string    `json:"fee_type" db:"fee_type"`
	Amount      float64   `json:"amount" db:"amount"`
	PaymentDate time.Time `json:"payment_date" db:"payment_date"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// PaymentFilters defines the available filters for querying the payment ledger.
type PaymentFilters struct {
	MemberID *int64  `form:"member_id"`
	FromDate *string `form:"from_date"` // YYYY-MM-DD
	ToDate   *string `form:"to_date"`   // YYYY-MM-DD
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
}
