package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	redisclient "github.com/diperi/dugout-backend/internal/clients/redis"
	userrepo "github.com/diperi/dugout-backend/internal/data/repos/user"
	types "github.com/diperi/dugout-backend/internal/domain"
	"github.com/diperi/dugout-backend/internal/platform/apierr"
	"github.com/diperi/dugout-backend/internal/platform/logger"
)

// ProfileService manages user profiles and the trust-based selection
// sessions that stand in for authentication.
type ProfileService interface {
	List(ctx context.Context) ([]*types.User, error)
	Get(ctx context.Context, profileID uuid.UUID) (*types.User, error)
	Create(ctx context.Context, name string) (*types.User, error)
	Delete(ctx context.Context, profileID uuid.UUID) error
	Avatar(ctx context.Context, profileID uuid.UUID) ([]byte, error)

	Select(ctx context.Context, profileID uuid.UUID) (*redisclient.Session, error)
	Resolve(ctx context.Context, token string) (*redisclient.Session, error)
	EndSession(ctx context.Context, token string) error
}

type profileService struct {
	db         *gorm.DB
	log        *logger.Logger
	userRepo   userrepo.UserRepo
	avatars    AvatarService
	sessions   redisclient.SessionStore
	sessionTTL time.Duration
}

func NewProfileService(db *gorm.DB, log *logger.Logger, userRepo userrepo.UserRepo, avatars AvatarService, sessions redisclient.SessionStore, sessionTTL time.Duration) ProfileService {
	serviceLog := log.With("service", "ProfileService")
	return &profileService{
		db:         db,
		log:        serviceLog,
		userRepo:   userRepo,
		avatars:    avatars,
		sessions:   sessions,
		sessionTTL: sessionTTL,
	}
}

func (ps *profileService) List(ctx context.Context) ([]*types.User, error) {
	users, err := ps.userRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error listing profiles: %w", err)
	}
	return users, nil
}

func (ps *profileService) Get(ctx context.Context, profileID uuid.UUID) (*types.User, error) {
	found, err := ps.userRepo.GetByIDs(ctx, nil, []uuid.UUID{profileID})
	if err != nil {
		return nil, fmt.Errorf("error fetching profile: %w", err)
	}
	if len(found) == 0 {
		return nil, apierr.NotFound("profile_not_found", fmt.Errorf("profile %s not found", profileID))
	}
	return found[0], nil
}

func (ps *profileService) Create(ctx context.Context, name string) (*types.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apierr.BadRequest("profile_name_required", errors.New("profile name is required"))
	}

	exists, err := ps.userRepo.NameExists(ctx, nil, name)
	if err != nil {
		return nil, fmt.Errorf("error checking profile name: %w", err)
	}
	if exists {
		return nil, apierr.Conflict("profile_name_taken", fmt.Errorf("profile %q already exists", name))
	}

	user := &types.User{
		Name:        name,
		BrokenRules: []byte("[]"),
		AvatarColor: ps.avatars.PickColor(),
	}

	png, hex, err := ps.avatars.Generate(user)
	if err != nil {
		// A profile without an avatar beats no profile.
		ps.log.Warn("Avatar generation failed", "name", name, "error", err)
	} else {
		user.AvatarColor = hex
		user.AvatarPNG = png
	}

	created, err := ps.userRepo.Create(ctx, nil, []*types.User{user})
	if err != nil {
		return nil, fmt.Errorf("error creating profile: %w", err)
	}
	ps.log.Info("Profile created", "profile_id", created[0].ID, "name", name)
	return created[0], nil
}

func (ps *profileService) Delete(ctx context.Context, profileID uuid.UUID) error {
	if _, err := ps.Get(ctx, profileID); err != nil {
		return err
	}
	if err := ps.userRepo.Delete(ctx, nil, profileID); err != nil {
		return fmt.Errorf("error deleting profile: %w", err)
	}
	ps.log.Info("Profile deleted", "profile_id", profileID)
	return nil
}

func (ps *profileService) Avatar(ctx context.Context, profileID uuid.UUID) ([]byte, error) {
	user, err := ps.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if len(user.AvatarPNG) == 0 {
		return nil, apierr.NotFound("avatar_not_found", fmt.Errorf("profile %s has no avatar", profileID))
	}
	return user.AvatarPNG, nil
}

func (ps *profileService) Select(ctx context.Context, profileID uuid.UUID) (*redisclient.Session, error) {
	if _, err := ps.Get(ctx, profileID); err != nil {
		return nil, err
	}
	session, err := ps.sessions.Create(ctx, profileID, ps.sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("error creating session: %w", err)
	}
	ps.log.Info("Profile selected", "profile_id", profileID)
	return session, nil
}

func (ps *profileService) Resolve(ctx context.Context, token string) (*redisclient.Session, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil
	}
	return ps.sessions.Get(ctx, token)
}

func (ps *profileService) EndSession(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return ps.sessions.Delete(ctx, token)
}
