package service

import (
	"context"
	"encoding/json"

	"trading-journal/internal/journal/dto"
	"trading-journal/internal/journal/repository"
)

// WidgetService serves the fixed calculator widget configurations.
type WidgetService interface {
	GetAll(ctx context.Context) ([]*dto.WidgetResponse, error)
}

// NewWidgetService creates a new widget service.
func NewWidgetService(widgetRepo repository.WidgetRepository) WidgetService {
	return &widgetService{widgetRepo: widgetRepo}
}

type widgetService struct {
	widgetRepo repository.WidgetRepository
}

func (s *widgetService) GetAll(ctx context.Context) ([]*dto.WidgetResponse, error) {
	widgets, err := s.widgetRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.WidgetResponse, 0, len(widgets))
	for _, w := range widgets {
		responses = append(responses, &dto.WidgetResponse{
			ID:          w.ID,
			Name:        w.Name,
			Calculator:  w.Calculator,
			ContainerID: w.ContainerID,
			Options:     json.RawMessage(w.Options),
		})
	}
	return responses, nil
}
