package services

import (
	"context"
	"sort"

	"github.com/nimasrn/ledger-api/internal/model"
	"github.com/nimasrn/ledger-api/pkg/logger"
)

type TemplateRepository interface {
	List(ctx context.Context) ([]*model.Template, error)
	GetByID(ctx context.Context, id int64) (*model.Template, error)
	Update(ctx context.Context, id int64, req model.TemplateUpdateRequest) (*model.Template, error)
	CreateIfMissing(ctx context.Context, name, content string) (bool, error)
}

type TemplateService struct {
	templates TemplateRepository
}

func NewTemplateService(templates TemplateRepository) *TemplateService {
	return &TemplateService{templates: templates}
}

func (s *TemplateService) List(ctx context.Context) ([]*model.Template, error) {
	templates, err := s.templates.List(ctx)
	if err != nil {
		return nil, err
	}
	if templates == nil {
		templates = []*model.Template{}
	}
	return templates, nil
}

func (s *TemplateService) Get(ctx context.Context, id int64) (*model.Template, error) {
	return s.templates.GetByID(ctx, id)
}

func (s *TemplateService) Update(ctx context.Context, id int64, req model.TemplateUpdateRequest) (*model.Template, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.templates.Update(ctx, id, req)
}

// EnsureDefaults seeds every notification template that does not exist yet.
// Edited templates are left alone.
func (s *TemplateService) EnsureDefaults(ctx context.Context) (int, error) {
	names := make([]string, 0, len(model.DefaultTemplates))
	for name := range model.DefaultTemplates {
		names = append(names, name)
	}
	sort.Strings(names)

	seeded := 0
	for _, name := range names {
		created, err := s.templates.CreateIfMissing(ctx, name, model.DefaultTemplates[name])
		if err != nil {
			return seeded, err
		}
		if created {
			seeded++
			logger.Info("template seeded", "name", name)
		}
	}
	return seeded, nil
}
