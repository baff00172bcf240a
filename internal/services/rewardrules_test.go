package services

import (
	"encoding/json"
	"testing"

	types "github.com/diperi/dugout-backend/internal/domain"
)

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return raw
}

func ruleWith(t *testing.T, base types.RuleSettings, overrides map[types.Weekday]types.RuleSettings) *types.RewardRule {
	t.Helper()
	rule := &types.RewardRule{Active: true}
	rule.BaseSettings = mustJSON(t, base)
	if overrides != nil {
		rule.DaySpecificSettings = mustJSON(t, overrides)
	}
	return rule
}

func TestEvaluateNoRules(t *testing.T) {
	decision, err := EvaluateRewardRules(nil, types.Monday, nil, 0)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !decision.CanRedeem {
		t.Fatalf("expected redeemable with no rules")
	}
	if len(decision.RulesMet) != 0 || len(decision.RulesNotMet) != 0 {
		t.Fatalf("expected empty rule lines, got %v / %v", decision.RulesMet, decision.RulesNotMet)
	}
}

func TestEvaluateDailyCap(t *testing.T) {
	rule := ruleWith(t, types.RuleSettings{MaxDailyRedemptions: "2"}, nil)

	decision, err := EvaluateRewardRules([]*types.RewardRule{rule}, types.Tuesday, nil, 1)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !decision.CanRedeem {
		t.Fatalf("expected redeemable below cap")
	}
	if len(decision.RulesMet) != 1 || decision.RulesMet[0] != "1/2 used today (Tuesday)" {
		t.Fatalf("unexpected rules met: %v", decision.RulesMet)
	}

	decision, err = EvaluateRewardRules([]*types.RewardRule{rule}, types.Tuesday, nil, 2)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if decision.CanRedeem {
		t.Fatalf("expected blocked at cap")
	}
	if len(decision.RulesNotMet) != 1 || decision.RulesNotMet[0] != "Daily limit reached (2) for Tuesday" {
		t.Fatalf("unexpected rules not met: %v", decision.RulesNotMet)
	}
}

func TestEvaluateEmptyCapIsUnlimited(t *testing.T) {
	rule := ruleWith(t, types.RuleSettings{}, nil)
	decision, err := EvaluateRewardRules([]*types.RewardRule{rule}, types.Friday, nil, 50)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !decision.CanRedeem {
		t.Fatalf("expected no cap when max_daily_redemptions is empty")
	}
}

func TestEvaluatePrerequisites(t *testing.T) {
	rule := ruleWith(t, types.RuleSettings{
		Prerequisites: []types.RulePrerequisite{
			{TaskTemplateID: "tpl-a", Description: "Make your bed"},
			{TaskTemplateID: "tpl-b", Description: "Brush your teeth"},
		},
	}, nil)

	completed := map[string]bool{"tpl-a": true}
	decision, err := EvaluateRewardRules([]*types.RewardRule{rule}, types.Monday, completed, 0)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if decision.CanRedeem {
		t.Fatalf("expected blocked with an unmet prerequisite")
	}
	if len(decision.RulesMet) != 1 || decision.RulesMet[0] != "Complete: Make your bed" {
		t.Fatalf("unexpected rules met: %v", decision.RulesMet)
	}
	if len(decision.RulesNotMet) != 1 || decision.RulesNotMet[0] != "Pending: Brush your teeth" {
		t.Fatalf("unexpected rules not met: %v", decision.RulesNotMet)
	}

	completed["tpl-b"] = true
	decision, err = EvaluateRewardRules([]*types.RewardRule{rule}, types.Monday, completed, 0)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !decision.CanRedeem {
		t.Fatalf("expected redeemable with all prerequisites done")
	}
}

func TestEvaluateEmptyTemplateIDNeverSatisfied(t *testing.T) {
	rule := ruleWith(t, types.RuleSettings{
		Prerequisites: []types.RulePrerequisite{
			{TaskTemplateID: "", Description: "Placeholder chore"},
		},
	}, nil)

	decision, err := EvaluateRewardRules([]*types.RewardRule{rule}, types.Monday, map[string]bool{"": true}, 0)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if decision.CanRedeem {
		t.Fatalf("expected empty template id to never be satisfied")
	}
	if len(decision.RulesNotMet) != 1 || decision.RulesNotMet[0] != "Pending: Placeholder chore" {
		t.Fatalf("unexpected rules not met: %v", decision.RulesNotMet)
	}
}

func TestEvaluateInactiveRulesIgnored(t *testing.T) {
	rule := ruleWith(t, types.RuleSettings{MaxDailyRedemptions: "0"}, nil)
	rule.Active = false

	decision, err := EvaluateRewardRules([]*types.RewardRule{rule}, types.Monday, nil, 10)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !decision.CanRedeem {
		t.Fatalf("expected inactive rule to be ignored")
	}
}

func TestEffectiveSettingsDayOverride(t *testing.T) {
	rule := ruleWith(t, types.RuleSettings{
		MaxDailyRedemptions: "3",
		Prerequisites: []types.RulePrerequisite{
			{TaskTemplateID: "a", Description: "A"},
			{TaskTemplateID: "b", Description: "B"},
		},
	}, map[types.Weekday]types.RuleSettings{
		types.Saturday: {
			MaxDailyRedemptions: "1",
			Prerequisites: []types.RulePrerequisite{
				{TaskTemplateID: "b", Description: "B weekend edition"},
				{TaskTemplateID: "c", Description: "C"},
			},
		},
	})

	effective, err := EffectiveRuleSettings(rule, types.Saturday)
	if err != nil {
		t.Fatalf("effective settings: %v", err)
	}
	if effective.MaxDailyRedemptions != "1" {
		t.Fatalf("expected day cap to win, got %q", effective.MaxDailyRedemptions)
	}
	if len(effective.Prerequisites) != 3 {
		t.Fatalf("expected merged prerequisites {a, b, c}, got %v", effective.Prerequisites)
	}
	byID := map[string]string{}
	for _, p := range effective.Prerequisites {
		byID[p.TaskTemplateID] = p.Description
	}
	if byID["a"] != "A" || byID["b"] != "B weekend edition" || byID["c"] != "C" {
		t.Fatalf("unexpected merge result: %v", byID)
	}

	// A day without an override falls back to base.
	effective, err = EffectiveRuleSettings(rule, types.Sunday)
	if err != nil {
		t.Fatalf("effective settings: %v", err)
	}
	if effective.MaxDailyRedemptions != "3" || len(effective.Prerequisites) != 2 {
		t.Fatalf("expected base settings on Sunday, got %+v", effective)
	}
}
