package profileservice

// Tutor профиль репетитора из ProfileService
type Tutor struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	HourlyRate  float64  `json:"hourly_rate"`
	LessonTypes []string `json:"lesson_types"`
}

// Student профиль студента из ProfileService
type Student struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ErrorResponse модель ошибки от ProfileService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
