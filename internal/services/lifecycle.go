package services

import (
	"time"

	"gym_admin_backend/internal/models"
)

// renewalPeriod is the membership extension granted by a paid renewal.
const renewalPeriod = 30 // days

// The transition appliers below compute the compound field updates of each
// lifecycle operation in memory. The service methods persist the result, so
// the date arithmetic stays testable without a store.

// applyRenewal marks the member paid as of today and resets the expiry to a
// fresh period from today, regardless of the prior expiry value. It returns
// the ledger entry to append alongside the member update.
func applyRenewal(m *models.Member, today time.Time) models.PaymentRecord {
	day := truncateToDay(today)
	m.FeePaid = true
	m.FeeStatus = models.FeeStatusPaid
	m.FeePaidDate = day
	m.ExpiryDate = day.AddDate(0, 0, renewalPeriod)

	return models.PaymentRecord{
		MemberID:    m.ID,
		MemberName:  m.Name,
		FeeType:     m.FeeType,
		Amount:      m.FeeAmount,
		PaymentDate: day,
	}
}

func applyFreeze(m *models.Member, today time.Time) {
	day := truncateToDay(today)
	m.Status = models.FeeStatusFreeze
	m.FeeStatus = models.FeeStatusFreeze
	m.FrozenDate = &day
}

func applyUnfreeze(m *models.Member) {
	m.Status = models.FeeStatusActive
	m.FeeStatus = models.FeeStatusActive
	m.FrozenDate = nil
}

func applyDormant(m *models.Member) {
	m.Status = models.FeeStatusDormant
	m.FeeStatus = models.FeeStatusDormant
}

func applyActivate(m *models.Member) {
	m.Status = models.FeeStatusActive
	m.FeeStatus = models.FeeStatusActive
}

func applySoftDelete(m *models.Member, today time.Time) {
	day := truncateToDay(today)
	m.DeletedAt = &day
}

func applyRestore(m *models.Member) {
	m.DeletedAt = nil
}
