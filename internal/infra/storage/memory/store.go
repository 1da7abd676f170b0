package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
)

// Store хранилище в памяти с теми же контрактами и ошибками, что и PostgreSQL репозитории
// Транзакции сериализуются целиком, при ошибке состояние откатывается к снимку
type Store struct {
	txMu sync.Mutex // сериализует транзакции
	mu   sync.Mutex // защищает данные

	trainings map[int64]domain.Training
	requests  map[int64]domain.TrainingRequest
	invoices  map[int64]domain.Invoice
	events    []domain.RequestEvent

	nextTrainingID int64
	nextRequestID  int64
	nextInvoiceID  int64

	now func() time.Time
}

// New создает пустое хранилище
func New() *Store {
	return &Store{
		trainings: make(map[int64]domain.Training),
		requests:  make(map[int64]domain.TrainingRequest),
		invoices:  make(map[int64]domain.Invoice),
		now:       time.Now,
	}
}

// Trainings репозиторий тренингов
func (s *Store) Trainings() *TrainingRepository {
	return &TrainingRepository{s: s}
}

// Requests репозиторий заявок
func (s *Store) Requests() *RequestRepository {
	return &RequestRepository{s: s}
}

// Invoices репозиторий счетов
func (s *Store) Invoices() *InvoiceRepository {
	return &InvoiceRepository{s: s}
}

// Events журнал событий
func (s *Store) Events() *EventRepository {
	return &EventRepository{s: s}
}

// Listing read-модель списка заявок
func (s *Store) Listing() *ListingRepository {
	return &ListingRepository{s: s}
}

// TxManager менеджер транзакций
func (s *Store) TxManager() *TxManager {
	return &TxManager{s: s}
}

type snapshot struct {
	trainings map[int64]domain.Training
	requests  map[int64]domain.TrainingRequest
	invoices  map[int64]domain.Invoice
	events    []domain.RequestEvent

	nextTrainingID int64
	nextRequestID  int64
	nextInvoiceID  int64
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshot{
		trainings:      make(map[int64]domain.Training, len(s.trainings)),
		requests:       make(map[int64]domain.TrainingRequest, len(s.requests)),
		invoices:       make(map[int64]domain.Invoice, len(s.invoices)),
		events:         append([]domain.RequestEvent(nil), s.events...),
		nextTrainingID: s.nextTrainingID,
		nextRequestID:  s.nextRequestID,
		nextInvoiceID:  s.nextInvoiceID,
	}
	for k, v := range s.trainings {
		snap.trainings[k] = v
	}
	for k, v := range s.requests {
		snap.requests[k] = v
	}
	for k, v := range s.invoices {
		snap.invoices[k] = v
	}

	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trainings = snap.trainings
	s.requests = snap.requests
	s.invoices = snap.invoices
	s.events = snap.events
	s.nextTrainingID = snap.nextTrainingID
	s.nextRequestID = snap.nextRequestID
	s.nextInvoiceID = snap.nextInvoiceID
}

type txKey struct{}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// TxManager сериализует транзакции хранилища
type TxManager struct {
	s *Store
}

// Do выполняет fn в транзакции
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

// DoSerializable выполняет fn в транзакции
func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

// DoReadOnly выполняет fn в транзакции
func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()

	snap := m.s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.s.restore(snap)
		return err
	}

	return nil
}

func sortedRequests(items []domain.TrainingRequest) []*domain.TrainingRequest {
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	out := make([]*domain.TrainingRequest, 0, len(items))
	for i := range items {
		out = append(out, &items[i])
	}
	return out
}
