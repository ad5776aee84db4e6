package profileservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client клиент для работы с ProfileService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента ProfileService
// Исходящие запросы несут заголовки трассировки W3C
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: log,
	}
}

// GetTutor получает профиль репетитора (имя, почасовая ставка, типы занятий)
func (c *Client) GetTutor(ctx context.Context, tutorID int64) (*Tutor, error) {
	var tutor Tutor
	url := fmt.Sprintf("%s/internal/tutors/%d", c.baseURL, tutorID)

	if err := c.get(ctx, url, ErrTutorNotFound, &tutor); err != nil {
		c.log.Warn("GetTutor: tutor_id=%d: %v", tutorID, err)
		return nil, err
	}

	return &tutor, nil
}

// GetStudent получает профиль студента
func (c *Client) GetStudent(ctx context.Context, studentID int64) (*Student, error) {
	var student Student
	url := fmt.Sprintf("%s/internal/students/%d", c.baseURL, studentID)

	if err := c.get(ctx, url, ErrStudentNotFound, &student); err != nil {
		c.log.Warn("GetStudent: student_id=%d: %v", studentID, err)
		return nil, err
	}

	return &student, nil
}

func (c *Client) get(ctx context.Context, url string, notFound error, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return notFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
