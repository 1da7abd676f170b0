package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
	"github.com/m04kA/SMC-TrainingService/pkg/types"
)

// Request модели

// CreateTrainingRequest запрос на создание тренинга
type CreateTrainingRequest struct {
	CompanyID        int64
	TopicID          int64
	StartDate        time.Time
	EndDate          time.Time
	StartTime        types.TimeString
	EndTime          types.TimeString
	Location         string
	ParticipantCount int
	DailyRate        decimal.Decimal
	Publish          bool // сразу PUBLISHED вместо DRAFT
}

// Response модели

// TrainingResponse ответ с данными тренинга
type TrainingResponse struct {
	ID               int64  `json:"id"`
	TopicID          int64  `json:"topicId"`
	CompanyID        int64  `json:"companyId"`
	StartDate        string `json:"startDate"` // "2025-11-03"
	EndDate          string `json:"endDate"`
	StartTime        string `json:"startTime"` // "09:00"
	EndTime          string `json:"endTime"`
	Location         string `json:"location"`
	ParticipantCount int    `json:"participantCount"`
	DailyRate        string `json:"dailyRate"` // "800.00"
	Status           string `json:"status"`    // "published"
	InvoiceDate      string `json:"invoiceDate"`
	CreatedAt        string `json:"createdAt"`
	UpdatedAt        string `json:"updatedAt"`
}

// InvoiceResponse ответ с данными счета
type InvoiceResponse struct {
	ID          int64  `json:"id"`
	Number      string `json:"number"`
	RequestID   int64  `json:"requestId"`
	TrainingID  int64  `json:"trainingId"`
	TrainerID   int64  `json:"trainerId"`
	CompanyID   int64  `json:"companyId"`
	Amount      string `json:"amount"`
	InvoiceDate string `json:"invoiceDate"`
	CreatedAt   string `json:"createdAt"`
}

// FromDomainTraining конвертирует domain.Training в TrainingResponse
func FromDomainTraining(t *domain.Training) *TrainingResponse {
	return &TrainingResponse{
		ID:               t.ID,
		TopicID:          t.TopicID,
		CompanyID:        t.CompanyID,
		StartDate:        t.StartDate.Format(domain.DateFormat),
		EndDate:          t.EndDate.Format(domain.DateFormat),
		StartTime:        t.StartTime.String(),
		EndTime:          t.EndTime.String(),
		Location:         t.Location,
		ParticipantCount: t.ParticipantCount,
		DailyRate:        FormatMoney(t.DailyRate),
		Status:           DisplayTrainingStatus(t.Status),
		InvoiceDate:      t.InvoiceDate().Format(domain.DateFormat),
		CreatedAt:        t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        t.UpdatedAt.Format(time.RFC3339),
	}
}

// FromDomainInvoice конвертирует domain.Invoice в InvoiceResponse
func FromDomainInvoice(inv *domain.Invoice) *InvoiceResponse {
	return &InvoiceResponse{
		ID:          inv.ID,
		Number:      inv.Number,
		RequestID:   inv.RequestID,
		TrainingID:  inv.TrainingID,
		TrainerID:   inv.TrainerID,
		CompanyID:   inv.CompanyID,
		Amount:      FormatMoney(inv.Amount),
		InvoiceDate: inv.InvoiceDate.Format(domain.DateFormat),
		CreatedAt:   inv.CreatedAt.Format(time.RFC3339),
	}
}

// FormatMoney форматирует сумму с двумя знаками после запятой
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// DisplayTrainingStatus статус тренинга для ответа ("in_progress")
func DisplayTrainingStatus(s domain.TrainingStatus) string {
	return strings.ToLower(string(s))
}

// ToDomainTrainingStatus разбирает статус из запроса (регистр не важен)
func ToDomainTrainingStatus(s string) (domain.TrainingStatus, bool) {
	status := domain.TrainingStatus(strings.ToUpper(strings.TrimSpace(s)))
	return status, status.IsValid()
}
