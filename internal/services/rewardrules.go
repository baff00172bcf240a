package services

import (
	"encoding/json"
	"fmt"
	"strconv"

	types "github.com/diperi/dugout-backend/internal/domain"
)

// RuleDecision is the outcome of evaluating a reward's rules for one user
// on one day. RulesMet and RulesNotMet carry human-readable lines for the
// reward card.
type RuleDecision struct {
	CanRedeem   bool     `json:"can_redeem"`
	RulesMet    []string `json:"rules_met"`
	RulesNotMet []string `json:"rules_not_met"`
}

// EffectiveRuleSettings overlays a rule's day-specific settings for the
// given weekday on top of its base settings. The day-specific redemption cap
// wins when present; prerequisites merge by template id with the
// day-specific entry replacing the base entry. Order of the merged
// prerequisites is not significant.
func EffectiveRuleSettings(rule *types.RewardRule, day types.Weekday) (types.RuleSettings, error) {
	var base types.RuleSettings
	if len(rule.BaseSettings) > 0 {
		if err := json.Unmarshal(rule.BaseSettings, &base); err != nil {
			return types.RuleSettings{}, fmt.Errorf("decode base settings: %w", err)
		}
	}

	var overrides map[types.Weekday]types.RuleSettings
	if len(rule.DaySpecificSettings) > 0 {
		if err := json.Unmarshal(rule.DaySpecificSettings, &overrides); err != nil {
			return types.RuleSettings{}, fmt.Errorf("decode day-specific settings: %w", err)
		}
	}

	override, ok := overrides[day]
	if !ok {
		return base, nil
	}

	effective := base
	if override.MaxDailyRedemptions != "" {
		effective.MaxDailyRedemptions = override.MaxDailyRedemptions
	}

	merged := make(map[string]types.RulePrerequisite, len(base.Prerequisites)+len(override.Prerequisites))
	order := make([]string, 0, len(base.Prerequisites)+len(override.Prerequisites))
	for _, p := range base.Prerequisites {
		if _, seen := merged[p.TaskTemplateID]; !seen {
			order = append(order, p.TaskTemplateID)
		}
		merged[p.TaskTemplateID] = p
	}
	for _, p := range override.Prerequisites {
		if _, seen := merged[p.TaskTemplateID]; !seen {
			order = append(order, p.TaskTemplateID)
		}
		merged[p.TaskTemplateID] = p
	}

	effective.Prerequisites = make([]types.RulePrerequisite, 0, len(order))
	for _, id := range order {
		effective.Prerequisites = append(effective.Prerequisites, merged[id])
	}
	return effective, nil
}

// EvaluateRewardRules decides redeemability of one reward.
//
// rules are all RewardRule rows for the reward and user; inactive rules are
// ignored. completedTemplateIDs is the set of template ids the user
// completed strictly today. redemptionsToday counts today's entries in the
// persisted redemption log for this reward.
//
// A reward with no active rules is always redeemable. Otherwise every check
// of every active rule must pass: reaching an effective daily cap or missing
// an effective prerequisite forces CanRedeem false. A prerequisite with an
// empty template id is never satisfied. The affordability check (coins >=
// cost) is the caller's concern, not the evaluator's.
func EvaluateRewardRules(rules []*types.RewardRule, day types.Weekday, completedTemplateIDs map[string]bool, redemptionsToday int) (RuleDecision, error) {
	decision := RuleDecision{
		CanRedeem:   true,
		RulesMet:    []string{},
		RulesNotMet: []string{},
	}

	for _, rule := range rules {
		if !rule.Active {
			continue
		}

		settings, err := EffectiveRuleSettings(rule, day)
		if err != nil {
			return RuleDecision{}, err
		}

		if settings.MaxDailyRedemptions != "" {
			limit, err := strconv.Atoi(settings.MaxDailyRedemptions)
			if err != nil {
				return RuleDecision{}, fmt.Errorf("rule %s: bad max_daily_redemptions %q", rule.ID, settings.MaxDailyRedemptions)
			}
			if redemptionsToday < limit {
				decision.RulesMet = append(decision.RulesMet,
					fmt.Sprintf("%d/%d used today (%s)", redemptionsToday, limit, day))
			} else {
				decision.RulesNotMet = append(decision.RulesNotMet,
					fmt.Sprintf("Daily limit reached (%d) for %s", limit, day))
				decision.CanRedeem = false
			}
		}

		for _, prereq := range settings.Prerequisites {
			if prereq.TaskTemplateID != "" && completedTemplateIDs[prereq.TaskTemplateID] {
				decision.RulesMet = append(decision.RulesMet, "Complete: "+prereq.Description)
			} else {
				decision.RulesNotMet = append(decision.RulesNotMet, "Pending: "+prereq.Description)
				decision.CanRedeem = false
			}
		}
	}

	return decision, nil
}
