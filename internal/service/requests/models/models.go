package models

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
	trainingModels "github.com/m04kA/SMC-TrainingService/internal/service/trainings/models"
)

// Request модели

// ListRequestsRequest запрос на получение списка заявок
// Список всегда ограничен вызывающей стороной: тренер видит свои заявки, компания - заявки своих тренингов
type ListRequestsRequest struct {
	Principal  domain.Principal
	TrainingID *int64
	Status     *string // "pending", "accepted", ...
	Limit      uint64
	Offset     uint64
}

// Response модели

// RequestResponse ответ с данными заявки
type RequestResponse struct {
	ID                     int64   `json:"id"`
	TrainingID             int64   `json:"trainingId"`
	TrainerID              int64   `json:"trainerId"`
	Status                 string  `json:"status"`                 // "pending"
	AwaitingConfirmationBy string  `json:"awaitingConfirmationBy"` // "none", "trainer", "company"
	CounterPrice           *string `json:"counterPrice,omitempty"`
	CompanyCounterPrice    *string `json:"companyCounterPrice,omitempty"`
	DeclineReason          *string `json:"declineReason,omitempty"`
	FinalPrice             string  `json:"finalPrice"`
	Completed              bool    `json:"completed"`
	Version                int64   `json:"version"`
	CreatedAt              string  `json:"createdAt"`
	UpdatedAt              string  `json:"updatedAt"`

	// Заполняются только в списке
	Training    *trainingModels.TrainingResponse `json:"training,omitempty"`
	TopicName   string                           `json:"topicName,omitempty"`
	TrainerName string                           `json:"trainerName,omitempty"`
	CompanyName string                           `json:"companyName,omitempty"`
}

// RequestListResponse ответ со списком заявок
type RequestListResponse struct {
	Requests []*RequestResponse `json:"requests"`
	Total    int                `json:"total"`
}

// EventResponse запись журнала переходов
type EventResponse struct {
	ID           string  `json:"id"`
	RequestID    int64   `json:"requestId"`
	Actor        string  `json:"actor"`
	Action       string  `json:"action"`
	FromStatus   string  `json:"fromStatus"`
	ToStatus     string  `json:"toStatus"`
	FromAwaiting string  `json:"fromAwaiting"`
	ToAwaiting   string  `json:"toAwaiting"`
	Price        *string `json:"price,omitempty"`
	Reason       *string `json:"reason,omitempty"`
	CreatedAt    string  `json:"createdAt"`
}

// EventListResponse ответ с журналом заявки
type EventListResponse struct {
	Events []*EventResponse `json:"events"`
}

// FromDomainRequest конвертирует заявку в ответ
// training нужен для итоговой цены и признака завершенности
func FromDomainRequest(req *domain.TrainingRequest, training *domain.Training) *RequestResponse {
	resp := &RequestResponse{
		ID:                     req.ID,
		TrainingID:             req.TrainingID,
		TrainerID:              req.TrainerID,
		Status:                 lower(req.State.Status()),
		AwaitingConfirmationBy: lower(req.State.AwaitingConfirmationBy()),
		FinalPrice:             trainingModels.FormatMoney(req.ResolvePrice(training.DailyRate)),
		Completed:              req.IsCompleted(training),
		Version:                req.Version,
		CreatedAt:              req.CreatedAt.Format(time.RFC3339),
		UpdatedAt:              req.UpdatedAt.Format(time.RFC3339),
	}
	if req.CounterPrice != nil {
		p := trainingModels.FormatMoney(*req.CounterPrice)
		resp.CounterPrice = &p
	}
	if req.CompanyCounterPrice != nil {
		p := trainingModels.FormatMoney(*req.CompanyCounterPrice)
		resp.CompanyCounterPrice = &p
	}
	if req.DeclineReason != nil {
		r := lower(*req.DeclineReason)
		resp.DeclineReason = &r
	}
	return resp
}

// FromDomainView конвертирует строку read-модели в ответ
func FromDomainView(view *domain.RequestView) *RequestResponse {
	resp := FromDomainRequest(&view.Request, &view.Training)
	resp.Training = trainingModels.FromDomainTraining(&view.Training)
	resp.TopicName = view.TopicName
	resp.TrainerName = view.TrainerName
	resp.CompanyName = view.CompanyName
	return resp
}

// FromDomainViewList конвертирует список
func FromDomainViewList(views []*domain.RequestView) *RequestListResponse {
	items := make([]*RequestResponse, 0, len(views))
	for _, v := range views {
		items = append(items, FromDomainView(v))
	}
	return &RequestListResponse{Requests: items, Total: len(items)}
}

// FromDomainEvents конвертирует журнал
func FromDomainEvents(events []*domain.RequestEvent) *EventListResponse {
	items := make([]*EventResponse, 0, len(events))
	for _, e := range events {
		item := &EventResponse{
			ID:           e.ID.String(),
			RequestID:    e.RequestID,
			Actor:        lower(e.Actor),
			Action:       lower(e.Action),
			FromStatus:   lower(e.FromStatus),
			ToStatus:     lower(e.ToStatus),
			FromAwaiting: lower(e.FromAwaiting),
			ToAwaiting:   lower(e.ToAwaiting),
			CreatedAt:    e.CreatedAt.Format(time.RFC3339),
		}
		if e.Price != nil {
			p := trainingModels.FormatMoney(*e.Price)
			item.Price = &p
		}
		if e.Reason != nil {
			r := lower(*e.Reason)
			item.Reason = &r
		}
		items = append(items, item)
	}
	return &EventListResponse{Events: items}
}

// ToDomainRequestStatus разбирает статус из запроса (регистр не важен)
func ToDomainRequestStatus(s string) (domain.RequestStatus, bool) {
	status := domain.RequestStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch status {
	case domain.RequestStatusPending, domain.RequestStatusAccepted,
		domain.RequestStatusDeclined, domain.RequestStatusWithdrawn:
		return status, true
	}
	return "", false
}

func lower[T ~string](v T) string {
	return strings.ToLower(string(v))
}
