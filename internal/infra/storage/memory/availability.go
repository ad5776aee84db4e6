package memory

import (
	"context"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
)

// AvailabilityRepository in-memory репозиторий шаблонов доступности
type AvailabilityRepository struct {
	store *Store
}

// GetByTutorID возвращает копию шаблона или шаблон со всеми выключенными днями
func (r *AvailabilityRepository) GetByTutorID(ctx context.Context, tutorID int64) (*domain.AvailabilityTemplate, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	tpl, ok := s.templates[tutorID]
	if !ok {
		return domain.NewAvailabilityTemplate(tutorID), nil
	}
	return cloneTemplate(tpl), nil
}

// Upsert сохраняет шаблон целиком
func (r *AvailabilityRepository) Upsert(ctx context.Context, template *domain.AvailabilityTemplate) (*domain.AvailabilityTemplate, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := domain.NewAvailabilityTemplate(template.TutorID)
	for w, day := range template.Days {
		stored.Days[w] = day
	}
	stored.UpdatedAt = s.now()

	tutorID := template.TutorID
	prev, existed := s.templates[tutorID]
	s.templates[tutorID] = stored
	s.record(ctx, func() {
		if existed {
			s.templates[tutorID] = prev
		} else {
			delete(s.templates, tutorID)
		}
	})

	template.UpdatedAt = stored.UpdatedAt
	return template, nil
}

func cloneTemplate(tpl *domain.AvailabilityTemplate) *domain.AvailabilityTemplate {
	c := &domain.AvailabilityTemplate{
		TutorID:   tpl.TutorID,
		Days:      make(map[domain.Weekday]domain.DayAvailability, len(tpl.Days)),
		UpdatedAt: tpl.UpdatedAt,
	}
	for w, day := range tpl.Days {
		c.Days[w] = day
	}
	return c
}
