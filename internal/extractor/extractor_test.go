package extractor

import (
	"testing"

	"github.com/scholartriage/pipeline/internal/leadmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCascadeExtractsFromJSONLD(t *testing.T) {
	html := `<html><head>
		<script type="application/ld+json">
		{"@type": "Scholarship", "name": "PhD Fellowship", "amount": "£5,000", "applicationDeadline": "2026-03-15"}
		</script>
	</head><body></body></html>`

	lead := &leadmodel.Lead{}
	NewExtractor().Cascade(lead, []byte(html), "https://example.edu/award")

	assert.Equal(t, "PhD Fellowship", lead.Name)
	assert.Equal(t, "£5,000", lead.Amount)
	assert.Equal(t, "2026-03-15", lead.Deadline)
	require.NotNil(t, lead.DeadlineDate)
	assert.Equal(t, leadmodel.DeadlineConfirmed, lead.DeadlineConfidence)
	assert.NotEmpty(t, lead.ExtractionEvidence)
}

func TestCascadeDoesNotOverwriteFilledFields(t *testing.T) {
	html := `<html><head>
		<script type="application/ld+json">
		{"@type": "Scholarship", "name": "From JSON-LD", "amount": "$1,000"}
		</script>
	</head><body><article class="scholarship"><h2>From Selector</h2></article></body></html>`

	lead := &leadmodel.Lead{}
	NewExtractor().Cascade(lead, []byte(html), "https://example.edu/award")

	assert.Equal(t, "From JSON-LD", lead.Name)
}

func TestCascadeMicrodataFillsEmptyFields(t *testing.T) {
	html := `<html><body>
		<div itemscope itemtype="https://schema.org/Scholarship">
			<span itemprop="name">Microdata Scholarship</span>
			<span itemprop="value">€2,000</span>
			<span itemprop="deadline">30 April 2026</span>
		</div>
	</body></html>`

	lead := &leadmodel.Lead{}
	NewExtractor().Cascade(lead, []byte(html), "https://example.edu/award")

	assert.Equal(t, "Microdata Scholarship", lead.Name)
	assert.Equal(t, "€2,000", lead.Amount)
}

func TestCascadeSelectorHeuristicFallback(t *testing.T) {
	html := `<html><body><div class="funding-item"><h3>Heuristic Award</h3></div></body></html>`

	lead := &leadmodel.Lead{}
	NewExtractor().Cascade(lead, []byte(html), "https://example.edu/award")

	assert.Equal(t, "Heuristic Award", lead.Name)
}

func TestCascadeRegexFallbackDetectsTBDWithSeason(t *testing.T) {
	html := `<html><body><p>Applications open, deadline TBD, intake Summer 2026.</p></body></html>`

	lead := &leadmodel.Lead{}
	NewExtractor().Cascade(lead, []byte(html), "https://example.edu/award")

	assert.Equal(t, leadmodel.DeadlineTBD, lead.DeadlineConfidence)
	assert.Nil(t, lead.DeadlineDate)
	assert.Contains(t, lead.DeadlineLabel, "Summer 2026")
}

func TestUpdateStructuredDatesRejectsInvalidDate(t *testing.T) {
	lead := &leadmodel.Lead{Deadline: "68-58-58"}
	UpdateStructuredDates(lead)

	assert.Nil(t, lead.DeadlineDate)
	assert.Equal(t, leadmodel.DeadlineUnknown, lead.DeadlineConfidence)
}

func TestUpdateStructuredDatesParsesLongForm(t *testing.T) {
	lead := &leadmodel.Lead{Deadline: "15 January 2026"}
	UpdateStructuredDates(lead)

	require.NotNil(t, lead.DeadlineDate)
	assert.Equal(t, 2026, lead.DeadlineDate.Year())
	assert.Equal(t, leadmodel.DeadlineConfirmed, lead.DeadlineConfidence)
}
