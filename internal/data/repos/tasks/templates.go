package tasks

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/diperi/dugout-backend/internal/domain"
	"github.com/diperi/dugout-backend/internal/platform/logger"
)

type TemplateRepo interface {
	Create(ctx context.Context, tx *gorm.DB, templates []*types.TaskTemplate) ([]*types.TaskTemplate, error)
	GetByID(ctx context.Context, tx *gorm.DB, templateID uuid.UUID) (*types.TaskTemplate, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, templateIDs []uuid.UUID) ([]*types.TaskTemplate, error)
	List(ctx context.Context, tx *gorm.DB, includeArchived bool) ([]*types.TaskTemplate, error)
	Update(ctx context.Context, tx *gorm.DB, template *types.TaskTemplate) error
	SetArchived(ctx context.Context, tx *gorm.DB, templateID uuid.UUID, archived bool) error
}

type templateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTemplateRepo(db *gorm.DB, baseLog *logger.Logger) TemplateRepo {
	repoLog := baseLog.With("repo", "TemplateRepo")
	return &templateRepo{db: db, log: repoLog}
}

func (tr *templateRepo) Create(ctx context.Context, tx *gorm.DB, templates []*types.TaskTemplate) ([]*types.TaskTemplate, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if len(templates) == 0 {
		return []*types.TaskTemplate{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func (tr *templateRepo) GetByID(ctx context.Context, tx *gorm.DB, templateID uuid.UUID) (*types.TaskTemplate, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var result types.TaskTemplate
	if err := transaction.WithContext(ctx).
		Where("id = ?", templateID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (tr *templateRepo) GetByIDs(ctx context.Context, tx *gorm.DB, templateIDs []uuid.UUID) ([]*types.TaskTemplate, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*types.TaskTemplate
	if len(templateIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", templateIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *templateRepo) List(ctx context.Context, tx *gorm.DB, includeArchived bool) ([]*types.TaskTemplate, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	query := transaction.WithContext(ctx).Order("name ASC")
	if !includeArchived {
		query = query.Where("is_archived = ?", false)
	}

	var results []*types.TaskTemplate
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *templateRepo) Update(ctx context.Context, tx *gorm.DB, template *types.TaskTemplate) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.TaskTemplate{}).
		Where("id = ?", template.ID).
		Updates(map[string]any{
			"name":       template.Name,
			"category":   template.Category,
			"coins":      template.Coins,
			"image_path": template.ImagePath,
		}).Error
}

func (tr *templateRepo) SetArchived(ctx context.Context, tx *gorm.DB, templateID uuid.UUID, archived bool) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.TaskTemplate{}).
		Where("id = ?", templateID).
		Update("is_archived", archived).Error
}
