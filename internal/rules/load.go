package rules

import (
	"fmt"
	"os"

	"github.com/scholartriage/pipeline/internal/leadmodel"
	"gopkg.in/yaml.v3"
)

// LoadRuleSet reads and parses a rules.yaml file into a leadmodel.RuleSet.
func LoadRuleSet(path string) (leadmodel.RuleSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return leadmodel.RuleSet{}, fmt.Errorf("read rules file: %w", err)
	}

	var ruleSet leadmodel.RuleSet
	if err := yaml.Unmarshal(raw, &ruleSet); err != nil {
		return leadmodel.RuleSet{}, fmt.Errorf("parse rules file: %w", err)
	}
	return ruleSet, nil
}
