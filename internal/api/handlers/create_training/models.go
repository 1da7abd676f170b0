package create_training

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
	"github.com/m04kA/SMC-TrainingService/internal/service/trainings/models"
	"github.com/m04kA/SMC-TrainingService/pkg/types"
)

// CreateTrainingRequest HTTP request model
type CreateTrainingRequest struct {
	TopicID          int64            `json:"topicId" validate:"required,gt=0"`
	StartDate        string           `json:"startDate" validate:"required"` // "2025-11-03"
	EndDate          string           `json:"endDate" validate:"required"`
	StartTime        string           `json:"startTime" validate:"required"` // "09:00"
	EndTime          string           `json:"endTime" validate:"required"`
	Location         string           `json:"location" validate:"max=255"`
	ParticipantCount int              `json:"participantCount" validate:"required,gt=0"`
	DailyRate        *decimal.Decimal `json:"dailyRate" validate:"required"`
	Publish          bool             `json:"publish"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateTrainingRequest) ToServiceRequest(companyID int64) (*models.CreateTrainingRequest, error) {
	startDate, err := time.Parse(domain.DateFormat, r.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := time.Parse(domain.DateFormat, r.EndDate)
	if err != nil {
		return nil, err
	}
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}
	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	return &models.CreateTrainingRequest{
		CompanyID:        companyID,
		TopicID:          r.TopicID,
		StartDate:        startDate,
		EndDate:          endDate,
		StartTime:        startTime,
		EndTime:          endTime,
		Location:         r.Location,
		ParticipantCount: r.ParticipantCount,
		DailyRate:        *r.DailyRate,
		Publish:          r.Publish,
	}, nil
}
