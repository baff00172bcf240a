package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	tasksrepo "github.com/diperi/dugout-backend/internal/data/repos/tasks"
	types "github.com/diperi/dugout-backend/internal/domain"
	"github.com/diperi/dugout-backend/internal/platform/apierr"
	"github.com/diperi/dugout-backend/internal/platform/logger"
)

type TemplateInput struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	Coins     int    `json:"coins"`
	ImagePath string `json:"image_path"`
}

type TemplateService interface {
	List(ctx context.Context, includeArchived bool) ([]*types.TaskTemplate, error)
	Create(ctx context.Context, input TemplateInput) (*types.TaskTemplate, error)
	Update(ctx context.Context, templateID uuid.UUID, input TemplateInput) (*types.TaskTemplate, error)
	Archive(ctx context.Context, templateID uuid.UUID) error
}

type templateService struct {
	db           *gorm.DB
	log          *logger.Logger
	templateRepo tasksrepo.TemplateRepo
}

func NewTemplateService(db *gorm.DB, log *logger.Logger, templateRepo tasksrepo.TemplateRepo) TemplateService {
	serviceLog := log.With("service", "TemplateService")
	return &templateService{db: db, log: serviceLog, templateRepo: templateRepo}
}

func (ts *templateService) List(ctx context.Context, includeArchived bool) ([]*types.TaskTemplate, error) {
	templates, err := ts.templateRepo.List(ctx, nil, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("error listing templates: %w", err)
	}
	return templates, nil
}

func (ts *templateService) Create(ctx context.Context, input TemplateInput) (*types.TaskTemplate, error) {
	if err := validateTemplateInput(input); err != nil {
		return nil, err
	}

	template := &types.TaskTemplate{
		Name:      strings.TrimSpace(input.Name),
		Category:  strings.TrimSpace(input.Category),
		Coins:     input.Coins,
		ImagePath: input.ImagePath,
	}
	created, err := ts.templateRepo.Create(ctx, nil, []*types.TaskTemplate{template})
	if err != nil {
		return nil, fmt.Errorf("error creating template: %w", err)
	}
	ts.log.Info("Template created", "template_id", created[0].ID, "name", created[0].Name)
	return created[0], nil
}

func (ts *templateService) Update(ctx context.Context, templateID uuid.UUID, input TemplateInput) (*types.TaskTemplate, error) {
	if err := validateTemplateInput(input); err != nil {
		return nil, err
	}

	template, err := ts.templateRepo.GetByID(ctx, nil, templateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("template_not_found", fmt.Errorf("template %s not found", templateID))
		}
		return nil, fmt.Errorf("error fetching template: %w", err)
	}

	template.Name = strings.TrimSpace(input.Name)
	template.Category = strings.TrimSpace(input.Category)
	template.Coins = input.Coins
	template.ImagePath = input.ImagePath

	if err := ts.templateRepo.Update(ctx, nil, template); err != nil {
		return nil, fmt.Errorf("error updating template: %w", err)
	}
	return template, nil
}

func (ts *templateService) Archive(ctx context.Context, templateID uuid.UUID) error {
	if err := ts.templateRepo.SetArchived(ctx, nil, templateID, true); err != nil {
		return fmt.Errorf("error archiving template: %w", err)
	}
	ts.log.Info("Template archived", "template_id", templateID)
	return nil
}

func validateTemplateInput(input TemplateInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apierr.BadRequest("template_name_required", errors.New("template name is required"))
	}
	if input.Coins < 0 {
		return apierr.BadRequest("template_coins_negative", errors.New("template coins must not be negative"))
	}
	return nil
}
