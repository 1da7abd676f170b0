package settlementqueue

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// TypeSettleTraining тип задачи повторного расчета тренинга
const TypeSettleTraining = "training:settle"

// SettlePayload содержимое задачи
type SettlePayload struct {
	TrainingID int64 `json:"trainingId"`
}

// NewSettleTask создает задачу расчета тренинга
func NewSettleTask(trainingID int64) (*asynq.Task, error) {
	payload, err := json.Marshal(SettlePayload{TrainingID: trainingID})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return asynq.NewTask(TypeSettleTraining, payload), nil
}

// ParseSettlePayload разбирает содержимое задачи
func ParseSettlePayload(task *asynq.Task) (SettlePayload, error) {
	var p SettlePayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return SettlePayload{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if p.TrainingID <= 0 {
		return SettlePayload{}, fmt.Errorf("%w: training id=%d", ErrInvalidPayload, p.TrainingID)
	}
	return p, nil
}

// taskID один активный расчет на тренинг
func taskID(trainingID int64) string {
	return fmt.Sprintf("settle:%d", trainingID)
}
