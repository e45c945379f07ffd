package reservation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RentalService/pkg/psqlbuilder"
)

// reservationColumns полный список колонок таблицы reservations
var reservationColumns = []string{
	"id",
	"user_id",
	"car_id",
	"start_date",
	"end_date",
	"total_price",
	"status",
	"payment_ref",
	"pickup_location",
	"dropoff_location",
	"customer_name",
	"customer_email",
	"customer_phone",
	"car_brand",
	"car_model",
	"car_price_per_day",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями.
// Единственная точка записи состояния бронирований - все мутации
// проходят через него.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Если в контексте передана активная транзакция (через context.Value),
// использует её. Создание с проверкой пересечения интервалов обязано
// выполняться в сериализуемой транзакции - см. usecase create_reservation.
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"user_id",
			"car_id",
			"start_date",
			"end_date",
			"total_price",
			"status",
			"payment_ref",
			"pickup_location",
			"dropoff_location",
			"customer_name",
			"customer_email",
			"customer_phone",
			"car_brand",
			"car_model",
			"car_price_per_day",
		).
		Values(
			res.UserID,
			res.CarID,
			res.StartDate,
			res.EndDate,
			res.TotalPrice,
			res.Status,
			res.PaymentRef,
			res.PickupLocation,
			res.DropoffLocation,
			res.Customer.Name,
			res.Customer.Email,
			res.Customer.Phone,
			res.CarBrand,
			res.CarModel,
			res.CarPricePerDay,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return res, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := r.scanReservation(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %w", ErrScanRow, err)
	}

	return res, nil
}

// List получает бронирования с фильтрацией по владельцу и статусу.
// Сортировка всегда по времени создания, сначала новые.
func (r *Repository) List(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		OrderBy("created_at DESC")

	// Фильтрация по владельцу (nil - все пользователи, для администратора)
	if filter.UserID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}

	// Фильтрация по статусу, если указан
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// FindBlockingOverlaps возвращает блокирующие бронирования (pending/confirmed)
// автомобиля, пересекающиеся с полуоткрытым интервалом [start, end).
// Стык "конец одного = начало другого" пересечением не считается.
//
// excludeID исключает из проверки само редактируемое бронирование
// (используется при повторной валидации в updateReservation).
//
// Внутри транзакции добавляется FOR UPDATE: конкурирующее создание на тот же
// автомобиль блокируется до конца транзакции, а в сериализуемой транзакции
// пересекающиеся вставки дополнительно приводят к serialization failure.
func (r *Repository) FindBlockingOverlaps(ctx context.Context, carID int64, start, end time.Time, excludeID *int64) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	blockingStatusStrings := make([]string, len(domain.BlockingStatuses))
	for i, s := range domain.BlockingStatuses {
		blockingStatusStrings[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"car_id": carID}).
		Where(squirrel.Eq{"status": blockingStatusStrings}).
		Where(squirrel.Lt{"start_date": end}).
		Where(squirrel.Gt{"end_date": start}).
		OrderBy("start_date ASC")

	if excludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *excludeID})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindBlockingOverlaps - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindBlockingOverlaps - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// Update обновляет изменяемые поля бронирования.
// Статус и payment_ref этим методом не меняются - для переходов статуса
// есть UpdateStatus и Confirm.
func (r *Repository) Update(ctx context.Context, res *domain.Reservation) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("car_id", res.CarID).
		Set("start_date", res.StartDate).
		Set("end_date", res.EndDate).
		Set("total_price", res.TotalPrice).
		Set("pickup_location", res.PickupLocation).
		Set("dropoff_location", res.DropoffLocation).
		Set("customer_name", res.Customer.Name).
		Set("customer_email", res.Customer.Email).
		Set("customer_phone", res.Customer.Phone).
		Set("car_brand", res.CarBrand).
		Set("car_model", res.CarModel).
		Set("car_price_per_day", res.CarPricePerDay).
		Where(squirrel.Eq{"id": res.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	return r.requireRowsAffected(result, "Update")
}

// UpdateStatus обновляет статус бронирования.
// Легальность перехода проверяет вызывающая сторона (service/usecase).
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	return r.requireRowsAffected(result, "UpdateStatus")
}

// Confirm переводит бронирование в confirmed и сохраняет платежную ссылку.
// Условие status = pending в UPDATE защищает от гонки двух подтверждений:
// записывается только первое, второе не затрагивает строк и получает
// ErrReservationNotPending.
func (r *Repository) Confirm(ctx context.Context, id int64, paymentRef string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusConfirmed).
		Set("payment_ref", paymentRef).
		Where(squirrel.Eq{"id": id, "status": domain.StatusPending}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Confirm - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Confirm - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Confirm - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotPending
	}

	return nil
}

// Delete удаляет бронирование (физическое удаление, только для администратора)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	return r.requireRowsAffected(result, "Delete")
}

// GetStats возвращает количество бронирований и сумму total_price по каждому
// статусу одним запросом. Один проход по данным гарантирует, что счетчики
// и выручка согласованы между собой.
func (r *Repository) GetStats(ctx context.Context) ([]domain.StatusCount, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"status",
		"COUNT(*)",
		"COALESCE(SUM(total_price), 0)",
	).
		From("reservations").
		GroupBy("status").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetStats - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetStats - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make([]domain.StatusCount, 0)
	for rows.Next() {
		var sc domain.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count, &sc.Sum); err != nil {
			return nil, fmt.Errorf("%w: GetStats - scan row: %w", ErrScanRow, err)
		}
		counts = append(counts, sc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetStats - rows error: %w", ErrScanRow, err)
	}

	return counts, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanReservation сканирует одну строку в модель бронирования
func (r *Repository) scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.CarID,
		&res.StartDate,
		&res.EndDate,
		&res.TotalPrice,
		&res.Status,
		&res.PaymentRef,
		&res.PickupLocation,
		&res.DropoffLocation,
		&res.Customer.Name,
		&res.Customer.Email,
		&res.Customer.Phone,
		&res.CarBrand,
		&res.CarModel,
		&res.CarPricePerDay,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}

// scanReservations сканирует результаты запроса в слайс бронирований
func (r *Repository) scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		res, err := r.scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %w", ErrScanRow, err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %w", ErrScanRow, err)
	}

	return reservations, nil
}

// requireRowsAffected проверяет, что запрос изменил хотя бы одну строку
func (r *Repository) requireRowsAffected(result sql.Result, op string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}
