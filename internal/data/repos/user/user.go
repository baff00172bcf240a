package user

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/diperi/dugout-backend/internal/domain"
	"github.com/diperi/dugout-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.User, error)
	NameExists(ctx context.Context, tx *gorm.DB, name string) (bool, error)
	Delete(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
	AdjustCoins(ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta int) error
	AdjustWallet(ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta int) error
	UpdateAvatar(ctx context.Context, tx *gorm.DB, userID uuid.UUID, avatarColor string, avatarPNG []byte) error
	UpdateStrikes(ctx context.Context, tx *gorm.DB, userID uuid.UUID, strikes int, brokenRules datatypes.JSON) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	if len(users) == 0 {
		return []*types.User{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (ur *userRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var results []*types.User

	if len(userIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var results []*types.User
	if err := transaction.WithContext(ctx).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) NameExists(ctx context.Context, tx *gorm.DB, name string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var count int64

	if err := transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (ur *userRepo) Delete(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", userID).
		Delete(&types.User{}).Error
}

// AdjustCoins applies delta to the balance, clamping at zero. The clamp is
// done in SQL so concurrent adjustments cannot drive the balance negative.
func (ur *userRepo) AdjustCoins(ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta int) error {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	return transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("id = ?", userID).
		Update("coins", gorm.Expr("CASE WHEN coins + ? < 0 THEN 0 ELSE coins + ? END", delta, delta)).Error
}

func (ur *userRepo) AdjustWallet(ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta int) error {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	return transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("id = ?", userID).
		Update("wallet", gorm.Expr("CASE WHEN wallet + ? < 0 THEN 0 ELSE wallet + ? END", delta, delta)).Error
}

func (ur *userRepo) UpdateAvatar(ctx context.Context, tx *gorm.DB, userID uuid.UUID, avatarColor string, avatarPNG []byte) error {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	return transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"avatar_color": avatarColor,
			"avatar_png":   avatarPNG,
		}).Error
}

func (ur *userRepo) UpdateStrikes(ctx context.Context, tx *gorm.DB, userID uuid.UUID, strikes int, brokenRules datatypes.JSON) error {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	return transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"strikes":      strikes,
			"broken_rules": brokenRules,
		}).Error
}
