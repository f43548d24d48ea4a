package doctorservice

// Doctor карточка врача из справочника
type Doctor struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Specialty       string   `json:"specialty"`
	ConsultationFee *float64 `json:"consultation_fee,omitempty"`
}

// ErrorResponse модель ошибки от справочника врачей
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
