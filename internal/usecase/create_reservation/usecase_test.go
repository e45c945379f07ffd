package create_reservation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/integrations/carservice"
	"github.com/m04kA/SMC-RentalService/internal/integrations/userservice"
	"github.com/m04kA/SMC-RentalService/pkg/ptr"
)

// fakeRepo потокобезопасное in-memory хранилище бронирований
type fakeRepo struct {
	mu           sync.Mutex
	nextID       int64
	reservations []*domain.Reservation
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1}
}

func (f *fakeRepo) Create(_ context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	created := *res
	created.ID = f.nextID
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.nextID++
	f.reservations = append(f.reservations, &created)
	return &created, nil
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

// fakeTxManager сериализует транзакции мьютексом, эмулируя
// serializable-изоляцию для проверки check-then-insert
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

type fakeUserClient struct {
	users    map[int64]*userservice.User
	degraded bool
}

func (f *fakeUserClient) GetUserWithGracefulDegradation(_ context.Context, userID int64) (*userservice.User, error) {
	if f.degraded {
		return nil, userservice.ErrServiceDegraded
	}
	user, ok := f.users[userID]
	if !ok {
		return nil, userservice.ErrUserNotFound
	}
	return user, nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func date(day int) time.Time {
	return time.Date(2025, 10, day, 0, 0, 0, 0, time.UTC)
}

func newTestUseCase(repo *fakeRepo, cars *fakeCarClient, users *fakeUserClient) *UseCase {
	return NewUseCase(repo, cars, users, &fakeTxManager{}, "Tunis, Tunisie", noopLogger{})
}

func defaultCars() *fakeCarClient {
	return &fakeCarClient{cars: map[int64]*carservice.Car{
		1: {ID: 1, Brand: "Peugeot", Model: "208", PricePerDay: 90, Availability: true},
		2: {ID: 2, Brand: "Renault", Model: "Clio", PricePerDay: 80, Availability: false},
	}}
}

func defaultUsers() *fakeUserClient {
	return &fakeUserClient{users: map[int64]*userservice.User{
		10: {ID: 10, Name: "Amine", Email: "amine@example.com", Phone: "+216 20 000 000"},
	}}
}

func validRequest() *Request {
	return &Request{
		Caller:     domain.Caller{ID: 10, Role: domain.RoleUser},
		CarID:      1,
		StartDate:  date(1),
		EndDate:    date(5),
		TotalPrice: 360,
	}
}

func TestExecute_Success(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUseCase(repo, defaultCars(), defaultUsers())

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, "Peugeot", resp.CarBrand)
	assert.Equal(t, float64(90), resp.CarPricePerDay)
	// Контактный снапшот подтянут из UserService
	assert.Equal(t, "Amine", resp.Customer.Name)
	// Точки выдачи и возврата по умолчанию
	assert.Equal(t, "Tunis, Tunisie", resp.PickupLocation)
	assert.Equal(t, "Tunis, Tunisie", resp.DropoffLocation)
}

func TestExecute_CustomerFromRequestWins(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUseCase(repo, defaultCars(), defaultUsers())

	req := validRequest()
	req.Customer = &CustomerInfo{Name: "Salma", Email: "salma@example.com", Phone: "+216 21 111 111"}
	req.PickupLocation = ptr.Ptr("Sfax")

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "Salma", resp.Customer.Name)
	assert.Equal(t, "Sfax", resp.PickupLocation)
	assert.Equal(t, "Tunis, Tunisie", resp.DropoffLocation)
}

func TestExecute_UserServiceDegraded(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUseCase(repo, defaultCars(), &fakeUserClient{degraded: true})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Недоступность UserService не блокирует бронирование
	assert.Equal(t, "", resp.Customer.Name)
	assert.Equal(t, "", resp.Customer.Email)
}

func TestExecute_CarNotFound(t *testing.T) {
	uc := newTestUseCase(newFakeRepo(), defaultCars(), defaultUsers())

	req := validRequest()
	req.CarID = 99

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrCarNotFound)
}

func TestExecute_CarUnavailable(t *testing.T) {
	uc := newTestUseCase(newFakeRepo(), defaultCars(), defaultUsers())

	req := validRequest()
	req.CarID = 2

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrCarUnavailable)
}

func TestExecute_InvalidInterval(t *testing.T) {
	uc := newTestUseCase(newFakeRepo(), defaultCars(), defaultUsers())

	tests := []struct {
		name       string
		start, end time.Time
	}{
		{"end before start", date(5), date(1)},
		{"equal dates", date(3), date(3)},
		{"zero dates", time.Time{}, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			req.StartDate = tt.start
			req.EndDate = tt.end

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInterval)
		})
	}
}

func TestExecute_NegativePrice(t *testing.T) {
	uc := newTestUseCase(newFakeRepo(), defaultCars(), defaultUsers())

	req := validRequest()
	req.TotalPrice = -1

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_DatesConflict(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUseCase(repo, defaultCars(), defaultUsers())

	_, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Пересекающийся интервал того же автомобиля
	req := validRequest()
	req.StartDate = date(3)
	req.EndDate = date(8)

	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrDatesConflict)
}

func TestExecute_BackToBackAllowed(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUseCase(repo, defaultCars(), defaultUsers())

	_, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Интервал начинается ровно в день окончания предыдущего
	req := validRequest()
	req.StartDate = date(5)
	req.EndDate = date(8)

	_, err = uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_CancelledDoesNotBlock(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUseCase(repo, defaultCars(), defaultUsers())

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Отменяем первое бронирование напрямую в хранилище
	repo.mu.Lock()
	for _, r := range repo.reservations {
		if r.ID == resp.ID {
			r.Status = domain.StatusCancelled
		}
	}
	repo.mu.Unlock()

	_, err = uc.Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestExecute_ConcurrentSameInterval(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUseCase(repo, defaultCars(), defaultUsers())

	const workers = 8
	errs := make(chan error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), validRequest())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, conflicted int
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		default:
			assert.ErrorIs(t, err, ErrDatesConflict)
			conflicted++
		}
	}

	// Из конкурирующих запросов на тот же интервал успешен ровно один
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicted)
	assert.Len(t, repo.reservations, 1)
}
