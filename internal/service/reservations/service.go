package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-RentalService/internal/service/reservations/models"
)

// Service сервис для работы с жизненным циклом бронирований.
// Создание и редактирование с повторной проверкой доступности живут
// в отдельных use case'ах, здесь - чтение и переходы статуса.
type Service struct {
	reservationRepo ReservationRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(reservationRepo ReservationRepository, logger Logger) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		logger:          logger,
	}
}

// GetByID получает бронирование по ID.
// Пользователь видит только своё бронирование, администратор - любое.
func (s *Service) GetByID(ctx context.Context, id int64, caller domain.Caller) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, caller.ID)

	res, err := s.getReservation(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !caller.CanAccess(res.UserID) {
		s.logger.Warn("GetByID: access denied for user=%d to reservation id=%d", caller.ID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainReservation(res), nil
}

// List получает список бронирований.
// Администратор видит все бронирования (опционально по статусу),
// обычный пользователь - только свои. Сортировка по времени создания,
// сначала новые.
func (s *Service) List(ctx context.Context, req *models.ListReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("List: fetching reservations for user=%d, role=%s, status=%v",
		req.Caller.ID, req.Caller.Role, req.Status)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid status filter %v for user=%d", *req.Status, req.Caller.ID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	reservations, err := s.reservationRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for user=%d: %v", req.Caller.ID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d reservations for user=%d", len(reservations), req.Caller.ID)
	return models.FromDomainReservationList(reservations), nil
}

// Cancel отменяет бронирование.
// Доступно владельцу и администратору; бронирование в терминальном
// статусе отменить нельзя.
func (s *Service) Cancel(ctx context.Context, id int64, caller domain.Caller) error {
	s.logger.Info("Cancel: cancelling reservation id=%d by user=%d", id, caller.ID)

	res, err := s.getReservation(ctx, "Cancel", id)
	if err != nil {
		return err
	}

	if !caller.CanAccess(res.UserID) {
		s.logger.Warn("Cancel: access denied for user=%d to reservation id=%d", caller.ID, id)
		return ErrAccessDenied
	}

	if !res.CanBeCancelled() {
		s.logger.Warn("Cancel: reservation id=%d cannot be cancelled, status=%s", id, res.Status)
		return ErrCannotCancel
	}

	if err := s.reservationRepo.UpdateStatus(ctx, id, domain.StatusCancelled); err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return ErrReservationNotFound
		}
		s.logger.Error("Cancel: repository error for reservation id=%d: %v", id, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled reservation id=%d", id)
	return nil
}

// Confirm подтверждает бронирование после захвата платежа.
//
// Идемпотентность: повторный callback с той же платежной ссылкой на уже
// подтвержденное бронирование возвращает успех без мутации. Та же ссылка
// может прийти дважды от платежного шлюза - это не ошибка. Подтверждение
// с другой ссылкой или подтверждение терминального бронирования - конфликт.
func (s *Service) Confirm(ctx context.Context, id int64, paymentRef string) (*models.ReservationResponse, error) {
	s.logger.Info("Confirm: confirming reservation id=%d", id)

	if paymentRef == "" {
		s.logger.Warn("Confirm: empty payment reference for reservation id=%d", id)
		return nil, fmt.Errorf("%w: payment reference is required", ErrInvalidInput)
	}

	res, err := s.getReservation(ctx, "Confirm", id)
	if err != nil {
		return nil, err
	}

	if res.Status == domain.StatusConfirmed {
		// Дубликат callback'а: та же ссылка - успех без изменений
		if res.PaymentRef != nil && *res.PaymentRef == paymentRef {
			s.logger.Info("Confirm: duplicate confirmation for reservation id=%d, payment_ref unchanged", id)
			return models.FromDomainReservation(res), nil
		}
		s.logger.Warn("Confirm: reservation id=%d already confirmed with a different payment_ref", id)
		return nil, ErrPaymentRefMismatch
	}

	if !domain.CanTransition(res.Status, domain.StatusConfirmed) {
		s.logger.Warn("Confirm: illegal transition for reservation id=%d from status=%s", id, res.Status)
		return nil, ErrIllegalTransition
	}

	if err := s.reservationRepo.Confirm(ctx, id, paymentRef); err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotPending) {
			// Между чтением и записью статус успел поменять конкурирующий
			// запрос. Перечитываем и применяем те же правила заново:
			// статусы двигаются только вперед, второй заход терминальный.
			s.logger.Warn("Confirm: reservation id=%d changed status concurrently, re-reading", id)
			return s.Confirm(ctx, id, paymentRef)
		}
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return nil, ErrReservationNotFound
		}
		s.logger.Error("Confirm: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Confirm - repository error: %v", ErrInternal, err)
	}

	res.Status = domain.StatusConfirmed
	res.PaymentRef = &paymentRef

	s.logger.Info("Confirm: successfully confirmed reservation id=%d", id)
	return models.FromDomainReservation(res), nil
}

// UpdateStatus административное изменение статуса.
// Второй легальный путь в confirmed (без платежной ссылки) и единственный
// путь в completed. Переход должен быть легальным по state machine.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating reservation id=%d to status=%s by user=%d",
		id, req.Status, req.Caller.ID)

	if !req.Caller.IsAdmin() {
		s.logger.Warn("UpdateStatus: access denied for user=%d", req.Caller.ID)
		return ErrAccessDenied
	}

	newStatus, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for reservation id=%d", req.Status, id)
		return fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
	}

	res, err := s.getReservation(ctx, "UpdateStatus", id)
	if err != nil {
		return err
	}

	if !domain.CanTransition(res.Status, newStatus) {
		s.logger.Warn("UpdateStatus: illegal transition %s -> %s for reservation id=%d",
			res.Status, newStatus, id)
		return ErrIllegalTransition
	}

	if err := s.reservationRepo.UpdateStatus(ctx, id, newStatus); err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return ErrReservationNotFound
		}
		s.logger.Error("UpdateStatus: repository error for reservation id=%d: %v", id, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated reservation id=%d to status=%s", id, newStatus)
	return nil
}

// Delete физически удаляет бронирование. Только для администратора,
// статус значения не имеет.
func (s *Service) Delete(ctx context.Context, id int64, caller domain.Caller) error {
	s.logger.Info("Delete: deleting reservation id=%d by user=%d", id, caller.ID)

	if !caller.IsAdmin() {
		s.logger.Warn("Delete: access denied for user=%d", caller.ID)
		return ErrAccessDenied
	}

	if err := s.reservationRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("Delete: reservation id=%d not found", id)
			return ErrReservationNotFound
		}
		s.logger.Error("Delete: repository error for reservation id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted reservation id=%d", id)
	return nil
}

// Stats возвращает агрегированную статистику по бронированиям.
// Только для администратора. Счетчики и выручка считаются одним
// проходом по данным.
func (s *Service) Stats(ctx context.Context, caller domain.Caller) (*models.StatsResponse, error) {
	s.logger.Info("Stats: computing reservation stats for user=%d", caller.ID)

	if !caller.IsAdmin() {
		s.logger.Warn("Stats: access denied for user=%d", caller.ID)
		return nil, ErrAccessDenied
	}

	counts, err := s.reservationRepo.GetStats(ctx)
	if err != nil {
		s.logger.Error("Stats: repository error: %v", err)
		return nil, fmt.Errorf("%w: Stats - repository error: %v", ErrInternal, err)
	}

	stats := domain.BuildStats(counts)

	s.logger.Info("Stats: total=%d, revenue=%.2f", stats.Total, stats.TotalRevenue)
	return models.FromDomainStats(stats), nil
}

// getReservation достает бронирование, транслируя ошибку репозитория
func (s *Service) getReservation(ctx context.Context, op string, id int64) (*domain.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("%s: reservation id=%d not found", op, id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("%s: repository error for reservation id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return res, nil
}
