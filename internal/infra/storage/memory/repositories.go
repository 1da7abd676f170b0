package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
	eventRepo "github.com/m04kA/SMC-TrainingService/internal/infra/storage/event"
	invoiceRepo "github.com/m04kA/SMC-TrainingService/internal/infra/storage/invoice"
	requestRepo "github.com/m04kA/SMC-TrainingService/internal/infra/storage/request"
	trainingRepo "github.com/m04kA/SMC-TrainingService/internal/infra/storage/training"
)

// TrainingRepository тренинги в памяти
type TrainingRepository struct {
	s *Store
}

// Create создает тренинг
func (r *TrainingRepository) Create(_ context.Context, training *domain.Training) (*domain.Training, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextTrainingID++
	training.ID = r.s.nextTrainingID
	training.CreatedAt = r.s.now()
	training.UpdatedAt = training.CreatedAt
	r.s.trainings[training.ID] = *training

	return training, nil
}

// GetByID получает тренинг по ID
func (r *TrainingRepository) GetByID(_ context.Context, id int64) (*domain.Training, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.trainings[id]
	if !ok {
		return nil, trainingRepo.ErrTrainingNotFound
	}
	return &t, nil
}

// GetByIDForUpdate получает тренинг по ID внутри транзакции
func (r *TrainingRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Training, error) {
	if !inTx(ctx) {
		return nil, fmt.Errorf("%w: GetByIDForUpdate", trainingRepo.ErrTransaction)
	}
	return r.GetByID(ctx, id)
}

// UpdateDailyRate обновляет цену тренинга
func (r *TrainingRepository) UpdateDailyRate(_ context.Context, id int64, rate decimal.Decimal) error {
	return r.update(id, func(t *domain.Training) { t.DailyRate = rate })
}

// UpdateStatus обновляет статус тренинга
func (r *TrainingRepository) UpdateStatus(_ context.Context, id int64, status domain.TrainingStatus) error {
	return r.update(id, func(t *domain.Training) { t.Status = status })
}

func (r *TrainingRepository) update(id int64, fn func(t *domain.Training)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.trainings[id]
	if !ok {
		return trainingRepo.ErrTrainingNotFound
	}
	fn(&t)
	t.UpdatedAt = r.s.now()
	r.s.trainings[id] = t
	return nil
}

// RequestRepository заявки в памяти
type RequestRepository struct {
	s *Store
}

// Create создает заявку, соблюдая uq_requests_active_pair
func (r *RequestRepository) Create(_ context.Context, req *domain.TrainingRequest) (*domain.TrainingRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.requests {
		if existing.TrainingID == req.TrainingID && existing.TrainerID == req.TrainerID &&
			existing.State.Status().IsActive() {
			return nil, requestRepo.ErrDuplicateActive
		}
	}

	r.s.nextRequestID++
	req.ID = r.s.nextRequestID
	req.Version = 1
	req.CreatedAt = r.s.now()
	req.UpdatedAt = req.CreatedAt
	r.s.requests[req.ID] = *req

	return req, nil
}

// GetByID получает заявку по ID
func (r *RequestRepository) GetByID(_ context.Context, id int64) (*domain.TrainingRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req, ok := r.s.requests[id]
	if !ok {
		return nil, requestRepo.ErrRequestNotFound
	}
	return &req, nil
}

// GetByIDForUpdate получает заявку по ID внутри транзакции
func (r *RequestRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.TrainingRequest, error) {
	if !inTx(ctx) {
		return nil, fmt.Errorf("%w: GetByIDForUpdate", requestRepo.ErrTransaction)
	}
	return r.GetByID(ctx, id)
}

// GetAcceptedByTraining получает принятую заявку тренинга
func (r *RequestRepository) GetAcceptedByTraining(_ context.Context, trainingID int64) (*domain.TrainingRequest, error) {
	matched := r.filter(func(req domain.TrainingRequest) bool {
		return req.TrainingID == trainingID && req.State.Status() == domain.RequestStatusAccepted
	})
	if len(matched) == 0 {
		return nil, requestRepo.ErrRequestNotFound
	}
	return matched[0], nil
}

// ListByTraining получает заявки тренинга
func (r *RequestRepository) ListByTraining(_ context.Context, trainingID int64) ([]*domain.TrainingRequest, error) {
	return r.filter(func(req domain.TrainingRequest) bool { return req.TrainingID == trainingID }), nil
}

// ListByTrainingForUpdate получает заявки тренинга внутри транзакции
func (r *RequestRepository) ListByTrainingForUpdate(ctx context.Context, trainingID int64) ([]*domain.TrainingRequest, error) {
	if !inTx(ctx) {
		return nil, fmt.Errorf("%w: ListByTrainingForUpdate", requestRepo.ErrTransaction)
	}
	return r.ListByTraining(ctx, trainingID)
}

// FindActiveByTrainers получает активные заявки тренинга для тренеров
func (r *RequestRepository) FindActiveByTrainers(_ context.Context, trainingID int64, trainerIDs []int64) ([]*domain.TrainingRequest, error) {
	wanted := make(map[int64]struct{}, len(trainerIDs))
	for _, id := range trainerIDs {
		wanted[id] = struct{}{}
	}

	return r.filter(func(req domain.TrainingRequest) bool {
		_, ok := wanted[req.TrainerID]
		return ok && req.TrainingID == trainingID && req.State.Status().IsActive()
	}), nil
}

// HasProgressed проверяет, есть ли принятая заявка или принятое тренером встречное предложение
func (r *RequestRepository) HasProgressed(_ context.Context, trainingID int64) (bool, error) {
	matched := r.filter(func(req domain.TrainingRequest) bool {
		return req.TrainingID == trainingID && req.HasProgressed()
	})
	return len(matched) > 0, nil
}

// Update сохраняет заявку с проверкой версии и uq_requests_accepted_per_training
func (r *RequestRepository) Update(_ context.Context, req *domain.TrainingRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.requests[req.ID]
	if !ok || current.Version != req.Version {
		return fmt.Errorf("%w: request id=%d version=%d", requestRepo.ErrVersionConflict, req.ID, req.Version)
	}

	if req.State.Status() == domain.RequestStatusAccepted {
		for id, other := range r.s.requests {
			if id != req.ID && other.TrainingID == req.TrainingID && other.State.Status() == domain.RequestStatusAccepted {
				return requestRepo.ErrAlreadyAccepted
			}
		}
	}

	req.Version++
	req.UpdatedAt = r.s.now()
	r.s.requests[req.ID] = *req
	return nil
}

// DeclinePending отклоняет указанные PENDING заявки
func (r *RequestRepository) DeclinePending(_ context.Context, ids []int64, reason domain.DeclineReason) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var affected int64
	for _, id := range ids {
		req, ok := r.s.requests[id]
		if !ok || req.State.Status() != domain.RequestStatusPending {
			continue
		}
		domain.SystemDecline(&req, reason)
		req.Version++
		req.UpdatedAt = r.s.now()
		r.s.requests[id] = req
		affected++
	}

	return affected, nil
}

func (r *RequestRepository) filter(match func(req domain.TrainingRequest) bool) []*domain.TrainingRequest {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var items []domain.TrainingRequest
	for _, req := range r.s.requests {
		if match(req) {
			items = append(items, req)
		}
	}
	return sortedRequests(items)
}

// InvoiceRepository счета в памяти
type InvoiceRepository struct {
	s *Store
}

// CreateIfAbsent создает счет, если по заявке его еще нет
func (r *InvoiceRepository) CreateIfAbsent(_ context.Context, invoice *domain.Invoice) (*domain.Invoice, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.invoices {
		if existing.RequestID == invoice.RequestID {
			inv := existing
			return &inv, false, nil
		}
		if existing.Number == invoice.Number {
			return nil, false, invoiceRepo.ErrDuplicateNumber
		}
	}

	r.s.nextInvoiceID++
	invoice.ID = r.s.nextInvoiceID
	invoice.CreatedAt = r.s.now()
	r.s.invoices[invoice.ID] = *invoice

	return invoice, true, nil
}

// GetByRequestID получает счет по заявке
func (r *InvoiceRepository) GetByRequestID(_ context.Context, requestID int64) (*domain.Invoice, error) {
	return r.find(func(inv domain.Invoice) bool { return inv.RequestID == requestID })
}

// GetByTrainingID получает счет по тренингу
func (r *InvoiceRepository) GetByTrainingID(_ context.Context, trainingID int64) (*domain.Invoice, error) {
	return r.find(func(inv domain.Invoice) bool { return inv.TrainingID == trainingID })
}

// Count количество счетов (для проверок в тестах)
func (r *InvoiceRepository) Count() int {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.invoices)
}

func (r *InvoiceRepository) find(match func(inv domain.Invoice) bool) (*domain.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, inv := range r.s.invoices {
		if match(inv) {
			found := inv
			return &found, nil
		}
	}
	return nil, invoiceRepo.ErrInvoiceNotFound
}

// EventRepository журнал событий в памяти
type EventRepository struct {
	s *Store
}

// Append добавляет события
func (r *EventRepository) Append(_ context.Context, events []*domain.RequestEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, e := range events {
		if e == nil {
			return fmt.Errorf("%w: nil event", eventRepo.ErrExecQuery)
		}
		r.s.events = append(r.s.events, *e)
	}
	return nil
}

// ListByRequest получает события заявки в порядке записи
func (r *EventRepository) ListByRequest(_ context.Context, requestID int64) ([]*domain.RequestEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*domain.RequestEvent
	for i := range r.s.events {
		if r.s.events[i].RequestID == requestID {
			e := r.s.events[i]
			out = append(out, &e)
		}
	}
	return out, nil
}

// ListingRepository read-модель в памяти
type ListingRepository struct {
	s *Store
}

// List получает заявки с тренингами по фильтру
func (r *ListingRepository) List(_ context.Context, filter domain.RequestFilter) ([]*domain.RequestView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var views []*domain.RequestView
	for _, req := range r.s.requests {
		training, ok := r.s.trainings[req.TrainingID]
		if !ok {
			continue
		}
		if filter.TrainerID != nil && req.TrainerID != *filter.TrainerID {
			continue
		}
		if filter.CompanyID != nil && training.CompanyID != *filter.CompanyID {
			continue
		}
		if filter.TrainingID != nil && req.TrainingID != *filter.TrainingID {
			continue
		}
		if filter.Status != nil && req.State.Status() != *filter.Status {
			continue
		}
		views = append(views, &domain.RequestView{Request: req, Training: training})
	}

	sort.Slice(views, func(i, j int) bool {
		a, b := views[i], views[j]
		if !a.Training.StartDate.Equal(b.Training.StartDate) {
			return a.Training.StartDate.Before(b.Training.StartDate)
		}
		return a.Request.ID < b.Request.ID
	})

	if filter.Offset > 0 {
		if filter.Offset >= uint64(len(views)) {
			return nil, nil
		}
		views = views[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < uint64(len(views)) {
		views = views[:filter.Limit]
	}

	return views, nil
}
