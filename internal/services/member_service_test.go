package services

import (
	"errors"
	"testing"
	"time"

	"gym_admin_backend/internal/models"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func newMemberFixture(t *testing.T) (*memberService, *fakeMemberRepo, *fakeAttendanceRepo, *fakePaymentRepo) {
	t.Helper()
	fm := newFakeMemberRepo()
	fa := newFakeAttendanceRepo()
	fp := newFakePaymentRepo()
	svc := &memberService{
		memberRepo:     fm,
		attendanceRepo: fa,
		paymentRepo:    fp,
		notifier:       NewNotifier(),
		now:            func() time.Time { return testToday },
	}
	return svc, fm, fa, fp
}

func strPtr(s string) *string { return &s }

func TestCreateMemberValidation(t *testing.T) {
	// validation runs before any persistence is touched
	svc, _, _, _ := newMemberFixture(t)

	valid := CreateMemberRequest{
		Name:    "Dana",
		Phone:   "+77010000001",
		Email:   "dana@example.com",
		FeeType: models.FeeTypeWithoutAC,
	}

	t.Run("empty name", func(t *testing.T) {
		req := valid
		req.Name = "   "
		_, err := svc.CreateMember(req)
		assert.ErrorIs(t, err, ErrMemberValidation)
	})

	t.Run("invalid email", func(t *testing.T) {
		req := valid
		req.Email = "not-an-email"
		_, err := svc.CreateMember(req)
		assert.ErrorIs(t, err, ErrMemberValidation)
	})

	t.Run("unknown fee type", func(t *testing.T) {
		req := valid
		req.FeeType = "GOLD"
		_, err := svc.CreateMember(req)
		assert.ErrorIs(t, err, ErrInvalidFeeType)
	})

	t.Run("malformed date", func(t *testing.T) {
		req := valid
		req.FeePaidDate = strPtr("15-06-2025")
		_, err := svc.CreateMember(req)
		assert.ErrorIs(t, err, ErrDateFormat)
	})

	t.Run("expiry before fee paid date", func(t *testing.T) {
		req := valid
		req.FeePaidDate = strPtr("2025-06-10")
		req.ExpiryDate = strPtr("2025-06-01")
		_, err := svc.CreateMember(req)
		assert.ErrorIs(t, err, ErrMemberValidation)
	})
}

func TestMemberTransitions(t *testing.T) {
	t.Run("freeze records the frozen date and both statuses", func(t *testing.T) {
		svc, fm, _, _ := newMemberFixture(t)
		id := seedMember(fm)

		member, err := svc.Freeze(id)
		assert.NoError(t, err)
		assert.Equal(t, models.FeeStatusFreeze, member.FeeStatus)
		assert.Equal(t, models.FeeStatusFreeze, member.Status)
		if assert.NotNil(t, member.FrozenDate) {
			assert.Equal(t, truncateToDay(testToday), *member.FrozenDate)
		}

		stored, _ := fm.GetMemberByID(id)
		assert.Equal(t, models.FeeStatusFreeze, stored.FeeStatus)
	})

	t.Run("freeze on a deleted member fails", func(t *testing.T) {
		svc, fm, _, _ := newMemberFixture(t)
		deleted := dayOffset(-1)
		id := seedMember(fm, func(m *models.Member) { m.DeletedAt = &deleted })

		_, err := svc.Freeze(id)
		assert.ErrorIs(t, err, ErrAlreadyDeleted)
	})

	t.Run("unfreeze requires a frozen member", func(t *testing.T) {
		svc, fm, _, _ := newMemberFixture(t)
		id := seedMember(fm)

		_, err := svc.Unfreeze(id)
		assert.ErrorIs(t, err, ErrNotFrozen)

		_, err = svc.Freeze(id)
		assert.NoError(t, err)
		member, err := svc.Unfreeze(id)
		assert.NoError(t, err)
		assert.Nil(t, member.FrozenDate)
		assert.Equal(t, models.FeeStatusActive, member.FeeStatus)
	})

	t.Run("activate requires a dormant member", func(t *testing.T) {
		svc, fm, _, _ := newMemberFixture(t)
		id := seedMember(fm)

		_, err := svc.Activate(id)
		assert.ErrorIs(t, err, ErrNotDormant)

		_, err = svc.MarkDormant(id)
		assert.NoError(t, err)
		member, err := svc.Activate(id)
		assert.NoError(t, err)
		assert.Equal(t, models.FeeStatusActive, member.FeeStatus)
	})

	t.Run("soft delete and restore round trip", func(t *testing.T) {
		svc, fm, _, _ := newMemberFixture(t)
		id := seedMember(fm)

		member, err := svc.SoftDelete(id)
		assert.NoError(t, err)
		assert.True(t, member.IsDeleted())

		_, err = svc.SoftDelete(id)
		assert.ErrorIs(t, err, ErrAlreadyDeleted)

		member, err = svc.Restore(id)
		assert.NoError(t, err)
		assert.False(t, member.IsDeleted())

		_, err = svc.Restore(id)
		assert.ErrorIs(t, err, ErrNotDeleted)
	})

	t.Run("transitions on a missing member fail", func(t *testing.T) {
		svc, _, _, _ := newMemberFixture(t)
		for _, op := range []func(int64) (*models.Member, error){
			svc.Freeze, svc.Unfreeze, svc.MarkDormant, svc.Activate, svc.SoftDelete, svc.Restore,
		} {
			_, err := op(999)
			assert.ErrorIs(t, err, ErrMemberNotFound)
		}
	})

	t.Run("transitions publish on the members topic", func(t *testing.T) {
		svc, fm, _, _ := newMemberFixture(t)
		id := seedMember(fm)
		events := svc.notifier.Subscribe()
		defer svc.notifier.Unsubscribe(events)

		_, err := svc.Freeze(id)
		assert.NoError(t, err)

		select {
		case ev := <-events:
			assert.Equal(t, TopicMembers, ev.Topic)
		default:
			t.Fatal("expected a members event")
		}
	})
}

// withMockDB attaches a mock connection so the transactional service paths
// exercise real Begin/Commit/Rollback calls around the fake repositories.
func withMockDB(t *testing.T, svc *memberService) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	svc.db = db
	return mock
}

func TestMarkAsPaid(t *testing.T) {
	t.Run("commits the member update and exactly one ledger entry", func(t *testing.T) {
		svc, fm, _, fp := newMemberFixture(t)
		id := seedMember(fm, func(m *models.Member) {
			m.FeePaid = false
			m.FeeStatus = models.FeeStatusUnpaid
			m.ExpiryDate = dayOffset(-90)
		})
		mock := withMockDB(t, svc)
		mock.ExpectBegin()
		mock.ExpectCommit()

		member, err := svc.MarkAsPaid(id)
		assert.NoError(t, err)
		assert.True(t, member.FeePaid)
		assert.Equal(t, models.FeeStatusPaid, member.FeeStatus)
		assert.Equal(t, truncateToDay(testToday).AddDate(0, 0, renewalPeriod), member.ExpiryDate)

		stored, _ := fm.GetMemberByID(id)
		assert.Equal(t, member.ExpiryDate, stored.ExpiryDate)

		if assert.Len(t, fp.payments, 1) {
			assert.Equal(t, id, fp.payments[0].MemberID)
			assert.Equal(t, member.FeeAmount, fp.payments[0].Amount)
			assert.Equal(t, truncateToDay(testToday), fp.payments[0].PaymentDate)
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the ledger append fails", func(t *testing.T) {
		svc, fm, _, fp := newMemberFixture(t)
		id := seedMember(fm)
		fp.appendErr = errors.New("ledger insert failed")
		mock := withMockDB(t, svc)
		mock.ExpectBegin()
		mock.ExpectRollback()

		events := svc.notifier.Subscribe()
		defer svc.notifier.Unsubscribe(events)

		_, err := svc.MarkAsPaid(id)
		assert.Error(t, err)
		assert.Empty(t, fp.payments)
		assert.Empty(t, events, "a failed renewal must not announce a change")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing member never opens a transaction", func(t *testing.T) {
		svc, _, _, _ := newMemberFixture(t)
		mock := withMockDB(t, svc)

		_, err := svc.MarkAsPaid(999)
		assert.ErrorIs(t, err, ErrMemberNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreateMemberPersistence(t *testing.T) {
	request := func() CreateMemberRequest {
		return CreateMemberRequest{
			Name:    "Dana",
			Phone:   "+77010000001",
			Email:   "dana@example.com",
			FeeType: models.FeeTypeWithAC,
		}
	}

	t.Run("paid creation appends the initial ledger entry in the same transaction", func(t *testing.T) {
		svc, _, _, fp := newMemberFixture(t)
		mock := withMockDB(t, svc)
		mock.ExpectBegin()
		mock.ExpectCommit()

		req := request()
		req.FeePaid = true
		member, err := svc.CreateMember(req)
		assert.NoError(t, err)
		assert.Equal(t, models.FeeStatusPaid, member.FeeStatus)
		assert.Equal(t, models.FeeTariffs[models.FeeTypeWithAC], member.FeeAmount)

		if assert.Len(t, fp.payments, 1) {
			assert.Equal(t, member.ID, fp.payments[0].MemberID)
			assert.Equal(t, member.FeeAmount, fp.payments[0].Amount)
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unpaid creation writes no ledger entry", func(t *testing.T) {
		svc, _, _, fp := newMemberFixture(t)
		mock := withMockDB(t, svc)
		mock.ExpectBegin()
		mock.ExpectCommit()

		member, err := svc.CreateMember(request())
		assert.NoError(t, err)
		assert.Equal(t, models.FeeStatusUnpaid, member.FeeStatus)
		assert.Empty(t, fp.payments)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPermanentlyDelete(t *testing.T) {
	svc, fm, _, _ := newMemberFixture(t)
	id := seedMember(fm)

	assert.NoError(t, svc.PermanentlyDelete(id))
	_, err := fm.GetMemberByID(id)
	assert.Error(t, err)

	assert.ErrorIs(t, svc.PermanentlyDelete(id), ErrMemberNotFound)
}

func TestUpdateMember(t *testing.T) {
	t.Run("changing the fee type reprices the member", func(t *testing.T) {
		svc, fm, _, _ := newMemberFixture(t)
		id := seedMember(fm)

		member, err := svc.UpdateMember(id, UpdateMemberRequest{FeeType: strPtr(models.FeeTypeWithoutAC)})
		assert.NoError(t, err)
		assert.Equal(t, models.FeeTypeWithoutAC, member.FeeType)
		assert.Equal(t, models.FeeTariffs[models.FeeTypeWithoutAC], member.FeeAmount)
	})

	t.Run("unknown fee type is rejected", func(t *testing.T) {
		svc, fm, _, _ := newMemberFixture(t)
		id := seedMember(fm)

		_, err := svc.UpdateMember(id, UpdateMemberRequest{FeeType: strPtr("PLATINUM")})
		assert.ErrorIs(t, err, ErrInvalidFeeType)
	})

	t.Run("email is normalized", func(t *testing.T) {
		svc, fm, _, _ := newMemberFixture(t)
		id := seedMember(fm)

		member, err := svc.UpdateMember(id, UpdateMemberRequest{Email: strPtr("  New.Mail@Example.COM ")})
		assert.NoError(t, err)
		assert.Equal(t, "new.mail@example.com", member.Email)
	})
}

func TestGetMembers(t *testing.T) {
	svc, fm, fa, _ := newMemberFixture(t)

	activeID := seedMember(fm, func(m *models.Member) { m.Name = "Active Aida" })
	fa.records = append(fa.records, models.AttendanceRecord{
		ID: 1, MemberID: activeID, Date: truncateToDay(dayOffset(-2)),
	})

	unpaidID := seedMember(fm, func(m *models.Member) {
		m.Name = "Unpaid Ulan"
		m.FeePaid = false
		m.FeeStatus = models.FeeStatusUnpaid
	})
	fa.records = append(fa.records, models.AttendanceRecord{
		ID: 2, MemberID: unpaidID, Date: truncateToDay(dayOffset(-2)),
	})

	dormantID := seedMember(fm, func(m *models.Member) {
		m.Name = "Dormant Dias"
		m.CreatedAt = dayOffset(-60)
	})

	deleted := dayOffset(-1)
	seedMember(fm, func(m *models.Member) {
		m.Name = "Deleted Daniyar"
		m.DeletedAt = &deleted
	})

	t.Run("default listing hides deleted members", func(t *testing.T) {
		views, total, err := svc.GetMembers(models.MemberFilters{})
		assert.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, views, 3)
	})

	t.Run("views carry the derived state", func(t *testing.T) {
		views, _, err := svc.GetMembers(models.MemberFilters{})
		assert.NoError(t, err)
		byID := map[int64]MemberView{}
		for _, v := range views {
			byID[v.ID] = v
		}
		assert.Equal(t, CategoryActive, byID[activeID].Category)
		assert.Equal(t, CategoryInactive, byID[unpaidID].Category)
		assert.Contains(t, byID[unpaidID].InactivityReasons, ReasonUnpaid)
		assert.Equal(t, CategoryDormant, byID[dormantID].Category)
	})

	t.Run("category filter", func(t *testing.T) {
		views, total, err := svc.GetMembers(models.MemberFilters{Category: strPtr("dormant")})
		assert.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, dormantID, views[0].ID)
	})

	t.Run("deleted filter surfaces soft-deleted members only", func(t *testing.T) {
		views, total, err := svc.GetMembers(models.MemberFilters{Category: strPtr("deleted")})
		assert.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, "Deleted Daniyar", views[0].Name)
	})

	t.Run("frozen filter keys on the explicit status", func(t *testing.T) {
		_, err := svc.Freeze(activeID)
		assert.NoError(t, err)
		defer func() {
			_, err := svc.Unfreeze(activeID)
			assert.NoError(t, err)
		}()

		views, total, err := svc.GetMembers(models.MemberFilters{Category: strPtr("frozen")})
		assert.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, activeID, views[0].ID)
	})

	t.Run("search narrows by name", func(t *testing.T) {
		views, total, err := svc.GetMembers(models.MemberFilters{Search: strPtr("ulan")})
		assert.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, unpaidID, views[0].ID)
	})

	t.Run("category pagination", func(t *testing.T) {
		views, total, err := svc.GetMembers(models.MemberFilters{
			Category: strPtr("active"), Page: 2, PageSize: 1,
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Empty(t, views)
	})
}
