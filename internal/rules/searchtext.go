// Package rules implements the Rules Engine (spec component J): loading a
// declarative YAML RuleSet and evaluating it against a Lead in strict
// hard-reject -> soft-downgrade -> positive-scoring order.
package rules

import (
	"strings"

	"github.com/scholartriage/pipeline/internal/leadmodel"
)

// SearchText builds the lowercased haystack every regex predicate matches
// against: name, amount, notes, eligibility, url, and source joined by space.
func SearchText(lead leadmodel.Lead) string {
	fields := []string{
		lead.Name,
		lead.Amount,
		lead.Notes,
		strings.Join(lead.Eligibility, " "),
		lead.URL,
		lead.Source,
	}
	return strings.ToLower(strings.Join(fields, " "))
}
