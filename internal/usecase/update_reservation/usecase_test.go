package update_reservation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-RentalService/internal/integrations/carservice"
	"github.com/m04kA/SMC-RentalService/pkg/ptr"
)

type fakeRepo struct {
	mu           sync.Mutex
	reservations map[int64]*domain.Reservation
}

func newFakeRepo(reservations ...*domain.Reservation) *fakeRepo {
	f := &fakeRepo{reservations: make(map[int64]*domain.Reservation)}
	for _, r := range reservations {
		f.reservations[r.ID] = r
	}
	return f
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.reservations[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRepo) FindBlockingOverlaps(_ context.Context, carID int64, start, end time.Time, excludeID *int64) ([]*domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*domain.Reservation
	for _, r := range f.reservations {
		if r.CarID != carID || !r.IsBlocking() {
			continue
		}
		if excludeID != nil && r.ID == *excludeID {
			continue
		}
		if domain.IntervalsOverlap(r.StartDate, r.EndDate, start, end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, res *domain.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.reservations[res.ID]; !ok {
		return reservationRepo.ErrReservationNotFound
	}
	copied := *res
	f.reservations[res.ID] = &copied
	return nil
}

type fakeTxManager struct {
	mu sync.Mutex
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(ctx)
}

type fakeCarClient struct {
	cars map[int64]*carservice.Car
}

func (f *fakeCarClient) GetCar(_ context.Context, carID int64) (*carservice.Car, error) {
	car, ok := f.cars[carID]
	if !ok {
		return nil, carservice.ErrCarNotFound
	}
	return car, nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func date(day int) time.Time {
	return time.Date(2025, 10, day, 0, 0, 0, 0, time.UTC)
}

func pendingReservation(id, userID, carID int64, start, end time.Time) *domain.Reservation {
	return &domain.Reservation{
		ID:             id,
		UserID:         userID,
		CarID:          carID,
		StartDate:      start,
		EndDate:        end,
		TotalPrice:     360,
		Status:         domain.StatusPending,
		CarBrand:       "Peugeot",
		CarModel:       "208",
		CarPricePerDay: 90,
	}
}

func newTestUseCase(repo *fakeRepo) *UseCase {
	cars := &fakeCarClient{cars: map[int64]*carservice.Car{
		1: {ID: 1, Brand: "Peugeot", Model: "208", PricePerDay: 90, Availability: true},
		2: {ID: 2, Brand: "Renault", Model: "Clio", PricePerDay: 80, Availability: true},
		3: {ID: 3, Brand: "Dacia", Model: "Logan", PricePerDay: 60, Availability: false},
	}}
	return NewUseCase(repo, cars, &fakeTxManager{}, noopLogger{})
}

func owner() domain.Caller {
	return domain.Caller{ID: 10, Role: domain.RoleUser}
}

func TestExecute_MoveDates(t *testing.T) {
	repo := newFakeRepo(pendingReservation(1, 10, 1, date(1), date(5)))
	uc := newTestUseCase(repo)

	resp, err := uc.Execute(context.Background(), &Request{
		Caller:        owner(),
		ReservationID: 1,
		StartDate:     ptr.Ptr(date(10)),
		EndDate:       ptr.Ptr(date(15)),
	})
	require.NoError(t, err)

	assert.Equal(t, date(10), resp.StartDate)
	assert.Equal(t, date(15), resp.EndDate)
	// Остальные поля не тронуты
	assert.Equal(t, float64(360), resp.TotalPrice)
	assert.Equal(t, "Peugeot", resp.CarBrand)
}

func TestExecute_ExcludesSelfFromOverlapCheck(t *testing.T) {
	repo := newFakeRepo(pendingReservation(1, 10, 1, date(1), date(5)))
	uc := newTestUseCase(repo)

	// Сдвиг внутри собственного интервала: пересечение с самим собой
	// не считается конфликтом
	resp, err := uc.Execute(context.Background(), &Request{
		Caller:        owner(),
		ReservationID: 1,
		StartDate:     ptr.Ptr(date(2)),
		EndDate:       ptr.Ptr(date(6)),
	})
	require.NoError(t, err)
	assert.Equal(t, date(2), resp.StartDate)
}

func TestExecute_DatesConflictWithOther(t *testing.T) {
	repo := newFakeRepo(
		pendingReservation(1, 10, 1, date(1), date(5)),
		pendingReservation(2, 11, 1, date(10), date(15)),
	)
	uc := newTestUseCase(repo)

	_, err := uc.Execute(context.Background(), &Request{
		Caller:        owner(),
		ReservationID: 1,
		StartDate:     ptr.Ptr(date(12)),
		EndDate:       ptr.Ptr(date(14)),
	})
	assert.ErrorIs(t, err, ErrDatesConflict)
}

func TestExecute_ChangeCarRefreshesSnapshot(t *testing.T) {
	repo := newFakeRepo(pendingReservation(1, 10, 1, date(1), date(5)))
	uc := newTestUseCase(repo)

	resp, err := uc.Execute(context.Background(), &Request{
		Caller:        owner(),
		ReservationID: 1,
		CarID:         ptr.Ptr(int64(2)),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), resp.CarID)
	assert.Equal(t, "Renault", resp.CarBrand)
	assert.Equal(t, "Clio", resp.CarModel)
	assert.Equal(t, float64(80), resp.CarPricePerDay)
}

func TestExecute_ChangeToUnavailableCar(t *testing.T) {
	repo := newFakeRepo(pendingReservation(1, 10, 1, date(1), date(5)))
	uc := newTestUseCase(repo)

	_, err := uc.Execute(context.Background(), &Request{
		Caller:        owner(),
		ReservationID: 1,
		CarID:         ptr.Ptr(int64(3)),
	})
	assert.ErrorIs(t, err, ErrCarUnavailable)
}

func TestExecute_ChangeToUnknownCar(t *testing.T) {
	repo := newFakeRepo(pendingReservation(1, 10, 1, date(1), date(5)))
	uc := newTestUseCase(repo)

	_, err := uc.Execute(context.Background(), &Request{
		Caller:        owner(),
		ReservationID: 1,
		CarID:         ptr.Ptr(int64(99)),
	})
	assert.ErrorIs(t, err, ErrCarNotFound)
}

func TestExecute_AccessDeniedForStranger(t *testing.T) {
	repo := newFakeRepo(pendingReservation(1, 10, 1, date(1), date(5)))
	uc := newTestUseCase(repo)

	_, err := uc.Execute(context.Background(), &Request{
		Caller:        domain.Caller{ID: 99, Role: domain.RoleUser},
		ReservationID: 1,
		TotalPrice:    ptr.Ptr(float64(100)),
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_AdminCanEditAnyReservation(t *testing.T) {
	repo := newFakeRepo(pendingReservation(1, 10, 1, date(1), date(5)))
	uc := newTestUseCase(repo)

	resp, err := uc.Execute(context.Background(), &Request{
		Caller:        domain.Caller{ID: 1, Role: domain.RoleAdmin},
		ReservationID: 1,
		TotalPrice:    ptr.Ptr(float64(400)),
	})
	require.NoError(t, err)
	assert.Equal(t, float64(400), resp.TotalPrice)
}

func TestExecute_TerminalStatusRejected(t *testing.T) {
	for _, status := range []domain.ReservationStatus{domain.StatusCancelled, domain.StatusCompleted} {
		t.Run(string(status), func(t *testing.T) {
			res := pendingReservation(1, 10, 1, date(1), date(5))
			res.Status = status
			uc := newTestUseCase(newFakeRepo(res))

			_, err := uc.Execute(context.Background(), &Request{
				Caller:        owner(),
				ReservationID: 1,
				TotalPrice:    ptr.Ptr(float64(100)),
			})
			assert.ErrorIs(t, err, ErrCannotUpdate)
		})
	}
}

func TestExecute_MergedIntervalInvalid(t *testing.T) {
	repo := newFakeRepo(pendingReservation(1, 10, 1, date(1), date(5)))
	uc := newTestUseCase(repo)

	// Патч только начала, сдвигающий её за конец интервала
	_, err := uc.Execute(context.Background(), &Request{
		Caller:        owner(),
		ReservationID: 1,
		StartDate:     ptr.Ptr(date(7)),
	})
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestExecute_NotFound(t *testing.T) {
	uc := newTestUseCase(newFakeRepo())

	_, err := uc.Execute(context.Background(), &Request{
		Caller:        owner(),
		ReservationID: 42,
	})
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestExecute_LocationOnlyPatchSkipsOverlapCheck(t *testing.T) {
	// Два пересекающихся бронирования в хранилище возможны только как
	// артефакт, но патч без дат не должен их замечать
	repo := newFakeRepo(
		pendingReservation(1, 10, 1, date(1), date(5)),
		pendingReservation(2, 11, 1, date(1), date(5)),
	)
	uc := newTestUseCase(repo)

	resp, err := uc.Execute(context.Background(), &Request{
		Caller:         owner(),
		ReservationID:  1,
		PickupLocation: ptr.Ptr("Sousse"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Sousse", resp.PickupLocation)
}
