package directory

// Trainer тренер из справочника
type Trainer struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Company компания-заказчик из справочника
type Company struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Topic тема тренинга из каталога
type Topic struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ErrorResponse модель ошибки от справочника
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
