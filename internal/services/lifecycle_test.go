package services

import (
	"testing"

	"gym_admin_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestApplyRenewal(t *testing.T) {
	day := truncateToDay(testToday)

	t.Run("resets expiry to a fresh period from today", func(t *testing.T) {
		deeplyExpired := testMember(func(m *models.Member) {
			m.FeePaid = false
			m.FeeStatus = models.FeeStatusUnpaid
			m.ExpiryDate = dayOffset(-90)
		})
		farFuture := testMember(func(m *models.Member) {
			m.ExpiryDate = dayOffset(200)
		})

		for _, m := range []*models.Member{deeplyExpired, farFuture} {
			applyRenewal(m, testToday)
			assert.True(t, m.FeePaid)
			assert.Equal(t, models.FeeStatusPaid, m.FeeStatus)
			assert.Equal(t, day, m.FeePaidDate)
			assert.Equal(t, day.AddDate(0, 0, renewalPeriod), m.ExpiryDate)
		}
	})

	t.Run("builds the matching ledger entry", func(t *testing.T) {
		m := testMember(func(m *models.Member) { m.FeePaid = false })
		p := applyRenewal(m, testToday)
		assert.Equal(t, m.ID, p.MemberID)
		assert.Equal(t, m.Name, p.MemberName)
		assert.Equal(t, m.FeeType, p.FeeType)
		assert.Equal(t, m.FeeAmount, p.Amount)
		assert.Equal(t, day, p.PaymentDate)
	})
}

func TestApplyFreezeUnfreeze(t *testing.T) {
	m := testMember()

	applyFreeze(m, testToday)
	assert.Equal(t, models.FeeStatusFreeze, m.FeeStatus)
	assert.Equal(t, models.FeeStatusFreeze, m.Status)
	if assert.NotNil(t, m.FrozenDate) {
		assert.Equal(t, truncateToDay(testToday), *m.FrozenDate)
	}

	applyUnfreeze(m)
	assert.Equal(t, models.FeeStatusActive, m.FeeStatus)
	assert.Equal(t, models.FeeStatusActive, m.Status)
	assert.Nil(t, m.FrozenDate)
}

func TestApplySoftDeleteRestore(t *testing.T) {
	m := testMember()
	before := *m

	applySoftDelete(m, testToday)
	assert.True(t, m.IsDeleted())
	if assert.NotNil(t, m.DeletedAt) {
		assert.Equal(t, truncateToDay(testToday), *m.DeletedAt)
	}

	applyRestore(m)
	assert.False(t, m.IsDeleted())
	// everything but the deletion marker survives the round trip
	assert.Equal(t, before, *m)
}

func TestApplyDormantActivate(t *testing.T) {
	m := testMember()

	applyDormant(m)
	assert.Equal(t, models.FeeStatusDormant, m.FeeStatus)
	assert.Equal(t, models.FeeStatusDormant, m.Status)

	applyActivate(m)
	assert.Equal(t, models.FeeStatusActive, m.FeeStatus)
	assert.Equal(t, models.FeeStatusActive, m.Status)
}
