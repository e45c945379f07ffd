package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-RentalService/internal/service/reservations/models"
)

type fakeRepo struct {
	reservations map[int64]*domain.Reservation
	stats        []domain.StatusCount

	// confirmHook выполняется один раз перед Confirm, имитируя
	// конкурирующую запись между чтением и подтверждением
	confirmHook func()
}

func newFakeRepo(reservations ...*domain.Reservation) *fakeRepo {
	f := &fakeRepo{reservations: make(map[int64]*domain.Reservation)}
	for _, r := range reservations {
		f.reservations[r.ID] = r
	}
	return f
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	r, ok := f.reservations[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRepo) List(_ context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	var out []*domain.Reservation
	for _, r := range f.reservations {
		if filter.UserID != nil && r.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id int64, status domain.ReservationStatus) error {
	r, ok := f.reservations[id]
	if !ok {
		return reservationRepo.ErrReservationNotFound
	}
	r.Status = status
	return nil
}

func (f *fakeRepo) Confirm(_ context.Context, id int64, paymentRef string) error {
	if f.confirmHook != nil {
		hook := f.confirmHook
		f.confirmHook = nil
		hook()
	}
	r, ok := f.reservations[id]
	if !ok || r.Status != domain.StatusPending {
		// UPDATE с условием status = pending не затронул ни одной строки
		return reservationRepo.ErrReservationNotPending
	}
	r.Status = domain.StatusConfirmed
	r.PaymentRef = &paymentRef
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.reservations[id]; !ok {
		return reservationRepo.ErrReservationNotFound
	}
	delete(f.reservations, id)
	return nil
}

func (f *fakeRepo) GetStats(_ context.Context) ([]domain.StatusCount, error) {
	return f.stats, nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func date(day int) time.Time {
	return time.Date(2025, 10, day, 0, 0, 0, 0, time.UTC)
}

func reservation(id, userID int64, status domain.ReservationStatus) *domain.Reservation {
	return &domain.Reservation{
		ID:        id,
		UserID:    userID,
		CarID:     1,
		StartDate: date(1),
		EndDate:   date(5),
		Status:    status,
	}
}

func owner() domain.Caller    { return domain.Caller{ID: 10, Role: domain.RoleUser} }
func admin() domain.Caller    { return domain.Caller{ID: 1, Role: domain.RoleAdmin} }
func stranger() domain.Caller { return domain.Caller{ID: 99, Role: domain.RoleUser} }

func TestGetByID_OwnerAndAdmin(t *testing.T) {
	svc := NewService(newFakeRepo(reservation(1, 10, domain.StatusPending)), noopLogger{})

	resp, err := svc.GetByID(context.Background(), 1, owner())
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)

	_, err = svc.GetByID(context.Background(), 1, admin())
	assert.NoError(t, err)

	_, err = svc.GetByID(context.Background(), 1, stranger())
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := NewService(newFakeRepo(), noopLogger{})

	_, err := svc.GetByID(context.Background(), 42, owner())
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestList_UserSeesOnlyOwn(t *testing.T) {
	svc := NewService(newFakeRepo(
		reservation(1, 10, domain.StatusPending),
		reservation(2, 11, domain.StatusPending),
		reservation(3, 10, domain.StatusConfirmed),
	), noopLogger{})

	resp, err := svc.List(context.Background(), &models.ListReservationsRequest{Caller: owner()})
	require.NoError(t, err)
	assert.Len(t, resp.Reservations, 2)
	for _, r := range resp.Reservations {
		assert.Equal(t, int64(10), r.UserID)
	}
}

func TestList_AdminSeesAllWithStatusFilter(t *testing.T) {
	svc := NewService(newFakeRepo(
		reservation(1, 10, domain.StatusPending),
		reservation(2, 11, domain.StatusConfirmed),
		reservation(3, 12, domain.StatusConfirmed),
	), noopLogger{})

	all, err := svc.List(context.Background(), &models.ListReservationsRequest{Caller: admin()})
	require.NoError(t, err)
	assert.Len(t, all.Reservations, 3)

	status := "confirmed"
	confirmed, err := svc.List(context.Background(), &models.ListReservationsRequest{Caller: admin(), Status: &status})
	require.NoError(t, err)
	assert.Len(t, confirmed.Reservations, 2)
}

func TestList_InvalidStatusFilter(t *testing.T) {
	svc := NewService(newFakeRepo(), noopLogger{})

	status := "ghost"
	_, err := svc.List(context.Background(), &models.ListReservationsRequest{Caller: admin(), Status: &status})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancel(t *testing.T) {
	repo := newFakeRepo(reservation(1, 10, domain.StatusPending))
	svc := NewService(repo, noopLogger{})

	require.NoError(t, svc.Cancel(context.Background(), 1, owner()))
	assert.Equal(t, domain.StatusCancelled, repo.reservations[1].Status)
}

func TestCancel_Guards(t *testing.T) {
	t.Run("stranger is denied", func(t *testing.T) {
		svc := NewService(newFakeRepo(reservation(1, 10, domain.StatusPending)), noopLogger{})
		assert.ErrorIs(t, svc.Cancel(context.Background(), 1, stranger()), ErrAccessDenied)
	})

	t.Run("terminal statuses cannot be cancelled", func(t *testing.T) {
		for _, status := range []domain.ReservationStatus{domain.StatusCancelled, domain.StatusCompleted} {
			svc := NewService(newFakeRepo(reservation(1, 10, status)), noopLogger{})
			assert.ErrorIs(t, svc.Cancel(context.Background(), 1, owner()), ErrCannotCancel)
		}
	})

	t.Run("confirmed can be cancelled", func(t *testing.T) {
		repo := newFakeRepo(reservation(1, 10, domain.StatusConfirmed))
		svc := NewService(repo, noopLogger{})
		assert.NoError(t, svc.Cancel(context.Background(), 1, owner()))
	})
}

func TestConfirm(t *testing.T) {
	repo := newFakeRepo(reservation(1, 10, domain.StatusPending))
	svc := NewService(repo, noopLogger{})

	resp, err := svc.Confirm(context.Background(), 1, "pay_123")
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	require.NotNil(t, resp.PaymentRef)
	assert.Equal(t, "pay_123", *resp.PaymentRef)
}

func TestConfirm_IdempotentOnSameRef(t *testing.T) {
	repo := newFakeRepo(reservation(1, 10, domain.StatusPending))
	svc := NewService(repo, noopLogger{})

	_, err := svc.Confirm(context.Background(), 1, "pay_123")
	require.NoError(t, err)

	// Повторный callback с той же ссылкой - успех без изменений
	resp, err := svc.Confirm(context.Background(), 1, "pay_123")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
}

func TestConfirm_DifferentRefConflicts(t *testing.T) {
	repo := newFakeRepo(reservation(1, 10, domain.StatusPending))
	svc := NewService(repo, noopLogger{})

	_, err := svc.Confirm(context.Background(), 1, "pay_123")
	require.NoError(t, err)

	_, err = svc.Confirm(context.Background(), 1, "pay_456")
	assert.ErrorIs(t, err, ErrPaymentRefMismatch)
}

func TestConfirm_TerminalStatusConflicts(t *testing.T) {
	for _, status := range []domain.ReservationStatus{domain.StatusCancelled, domain.StatusCompleted} {
		t.Run(string(status), func(t *testing.T) {
			svc := NewService(newFakeRepo(reservation(1, 10, status)), noopLogger{})

			_, err := svc.Confirm(context.Background(), 1, "pay_123")
			assert.ErrorIs(t, err, ErrIllegalTransition)
		})
	}
}

func TestConfirm_ConcurrentConfirmLoses(t *testing.T) {
	repo := newFakeRepo(reservation(1, 10, domain.StatusPending))
	svc := NewService(repo, noopLogger{})

	// Конкурирующее подтверждение с другой ссылкой вклинивается между
	// чтением и записью: проигравший должен получить конфликт, а не
	// молча перезаписать payment_ref победителя
	repo.confirmHook = func() {
		other := "pay_other"
		repo.reservations[1].Status = domain.StatusConfirmed
		repo.reservations[1].PaymentRef = &other
	}

	_, err := svc.Confirm(context.Background(), 1, "pay_123")
	assert.ErrorIs(t, err, ErrPaymentRefMismatch)

	require.NotNil(t, repo.reservations[1].PaymentRef)
	assert.Equal(t, "pay_other", *repo.reservations[1].PaymentRef)
}

func TestConfirm_ConcurrentDuplicateDelivery(t *testing.T) {
	repo := newFakeRepo(reservation(1, 10, domain.StatusPending))
	svc := NewService(repo, noopLogger{})

	// Тот же callback доставлен дважды одновременно: второй заход видит
	// уже подтвержденное бронирование с той же ссылкой и идемпотентно
	// возвращает успех
	repo.confirmHook = func() {
		same := "pay_123"
		repo.reservations[1].Status = domain.StatusConfirmed
		repo.reservations[1].PaymentRef = &same
	}

	resp, err := svc.Confirm(context.Background(), 1, "pay_123")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
}

func TestConfirm_ConcurrentCancelLoses(t *testing.T) {
	repo := newFakeRepo(reservation(1, 10, domain.StatusPending))
	svc := NewService(repo, noopLogger{})

	// Бронирование отменили между чтением и подтверждением
	repo.confirmHook = func() {
		repo.reservations[1].Status = domain.StatusCancelled
	}

	_, err := svc.Confirm(context.Background(), 1, "pay_123")
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Equal(t, domain.StatusCancelled, repo.reservations[1].Status)
}

func TestConfirm_EmptyPaymentRef(t *testing.T) {
	svc := NewService(newFakeRepo(reservation(1, 10, domain.StatusPending)), noopLogger{})

	_, err := svc.Confirm(context.Background(), 1, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateStatus(t *testing.T) {
	repo := newFakeRepo(reservation(1, 10, domain.StatusConfirmed))
	svc := NewService(repo, noopLogger{})

	err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		Caller: admin(),
		Status: "completed",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, repo.reservations[1].Status)
}

func TestUpdateStatus_Guards(t *testing.T) {
	t.Run("non-admin is denied", func(t *testing.T) {
		svc := NewService(newFakeRepo(reservation(1, 10, domain.StatusPending)), noopLogger{})
		err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
			Caller: owner(),
			Status: "confirmed",
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("unknown status", func(t *testing.T) {
		svc := NewService(newFakeRepo(reservation(1, 10, domain.StatusPending)), noopLogger{})
		err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
			Caller: admin(),
			Status: "ghost",
		})
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("illegal transition", func(t *testing.T) {
		svc := NewService(newFakeRepo(reservation(1, 10, domain.StatusPending)), noopLogger{})
		err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
			Caller: admin(),
			Status: "completed",
		})
		assert.ErrorIs(t, err, ErrIllegalTransition)
	})
}

func TestDelete(t *testing.T) {
	repo := newFakeRepo(reservation(1, 10, domain.StatusCompleted))
	svc := NewService(repo, noopLogger{})

	// Удаление доступно только администратору
	assert.ErrorIs(t, svc.Delete(context.Background(), 1, owner()), ErrAccessDenied)

	require.NoError(t, svc.Delete(context.Background(), 1, admin()))
	assert.Empty(t, repo.reservations)

	assert.ErrorIs(t, svc.Delete(context.Background(), 1, admin()), ErrReservationNotFound)
}

func TestStats(t *testing.T) {
	repo := newFakeRepo()
	repo.stats = []domain.StatusCount{
		{Status: domain.StatusPending, Count: 2, Sum: 300},
		{Status: domain.StatusConfirmed, Count: 3, Sum: 450},
		{Status: domain.StatusCancelled, Count: 1, Sum: 120},
		{Status: domain.StatusCompleted, Count: 1, Sum: 50},
	}
	svc := NewService(repo, noopLogger{})

	_, err := svc.Stats(context.Background(), owner())
	assert.ErrorIs(t, err, ErrAccessDenied)

	stats, err := svc.Stats(context.Background(), admin())
	require.NoError(t, err)

	assert.Equal(t, int64(7), stats.Total)
	assert.Equal(t, int64(2), stats.Pending)
	assert.Equal(t, int64(3), stats.Confirmed)
	assert.Equal(t, int64(1), stats.Cancelled)
	assert.Equal(t, int64(1), stats.Completed)
	assert.Equal(t, float64(500), stats.TotalRevenue)
}
