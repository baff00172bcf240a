package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	userrepo "github.com/diperi/dugout-backend/internal/data/repos/user"
	types "github.com/diperi/dugout-backend/internal/domain"
	"github.com/diperi/dugout-backend/internal/platform/apierr"
	"github.com/diperi/dugout-backend/internal/platform/logger"
)

// HouseRules is the fixed list shown to every family. Rules are addressed
// by their index in this slice.
var HouseRules = []string{
	"No hitting or hurting others",
	"No yelling or screaming indoors",
	"No throwing things in the house",
	"Listen the first time you are asked",
	"No jumping on the furniture",
	"Clean up after yourself",
	"Be kind with your words",
	"No slamming doors",
	"Ask before taking someone else's things",
	"Tell the truth",
}

const maxStrikes = 3

// StrikeState is a profile's current standing against the house rules.
type StrikeState struct {
	Strikes      int   `json:"strikes"`
	BrokenRules  []int `json:"broken_rules"`
	CoinDeducted bool  `json:"coin_deducted"`
}

type HouseRuleService interface {
	Rules() []string
	StateForUser(ctx context.Context, userID uuid.UUID) (*StrikeState, error)
	Break(ctx context.Context, userID uuid.UUID, ruleIndex int) (*StrikeState, error)
	Reset(ctx context.Context, userID uuid.UUID) (*StrikeState, error)
}

type houseRuleService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo userrepo.UserRepo
}

func NewHouseRuleService(db *gorm.DB, log *logger.Logger, userRepo userrepo.UserRepo) HouseRuleService {
	serviceLog := log.With("service", "HouseRuleService")
	return &houseRuleService{
		db:       db,
		log:      serviceLog,
		userRepo: userRepo,
	}
}

func (hs *houseRuleService) Rules() []string {
	out := make([]string, len(HouseRules))
	copy(out, HouseRules)
	return out
}

func (hs *houseRuleService) StateForUser(ctx context.Context, userID uuid.UUID) (*StrikeState, error) {
	user, err := hs.fetchUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	broken, err := decodeBrokenRules(user.BrokenRules)
	if err != nil {
		return nil, err
	}
	return &StrikeState{Strikes: user.Strikes, BrokenRules: broken}, nil
}

// Break records a broken rule. Strikes cap at three; the third strike
// deducts one coin, never pushing the balance below zero.
func (hs *houseRuleService) Break(ctx context.Context, userID uuid.UUID, ruleIndex int) (*StrikeState, error) {
	if ruleIndex < 0 || ruleIndex >= len(HouseRules) {
		return nil, apierr.BadRequest("bad_rule_index", fmt.Errorf("rule index %d out of range", ruleIndex))
	}

	var state *StrikeState
	err := hs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := hs.fetchUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		broken, err := decodeBrokenRules(user.BrokenRules)
		if err != nil {
			return err
		}

		strikes := user.Strikes
		deducted := false
		if strikes < maxStrikes {
			strikes++
			if strikes == maxStrikes {
				if err := hs.userRepo.AdjustCoins(ctx, tx, userID, -1); err != nil {
					return fmt.Errorf("error deducting strike coin: %w", err)
				}
				deducted = true
				hs.log.Info("Third strike coin deducted", "user_id", userID)
			}
		}
		broken = append(broken, ruleIndex)

		if err := hs.userRepo.UpdateStrikes(ctx, tx, userID, strikes, encodeBrokenRules(broken)); err != nil {
			return fmt.Errorf("error updating strikes: %w", err)
		}
		state = &StrikeState{Strikes: strikes, BrokenRules: broken, CoinDeducted: deducted}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (hs *houseRuleService) Reset(ctx context.Context, userID uuid.UUID) (*StrikeState, error) {
	var state *StrikeState
	err := hs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := hs.fetchUser(ctx, tx, userID); err != nil {
			return err
		}
		if err := hs.userRepo.UpdateStrikes(ctx, tx, userID, 0, datatypes.JSON([]byte("[]"))); err != nil {
			return fmt.Errorf("error resetting strikes: %w", err)
		}
		state = &StrikeState{Strikes: 0, BrokenRules: []int{}}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (hs *houseRuleService) fetchUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.User, error) {
	users, err := hs.userRepo.GetByIDs(ctx, tx, []uuid.UUID{userID})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("profile_not_found", fmt.Errorf("profile %s not found", userID))
		}
		return nil, fmt.Errorf("error fetching profile: %w", err)
	}
	if len(users) == 0 {
		return nil, apierr.NotFound("profile_not_found", fmt.Errorf("profile %s not found", userID))
	}
	return users[0], nil
}

func decodeBrokenRules(raw datatypes.JSON) ([]int, error) {
	if len(raw) == 0 {
		return []int{}, nil
	}
	var broken []int
	if err := json.Unmarshal(raw, &broken); err != nil {
		return nil, fmt.Errorf("error decoding broken rules: %w", err)
	}
	return broken, nil
}

func encodeBrokenRules(broken []int) datatypes.JSON {
	raw, err := json.Marshal(broken)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(raw)
}
