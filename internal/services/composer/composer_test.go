package composer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/twokomi/oneclick-reports-backend/internal/interfaces"
	"github.com/twokomi/oneclick-reports-backend/internal/models"
)

// stubGenerator returns a fixed text or a fixed error.
type stubGenerator struct {
	text string
	err  error
}

func (g *stubGenerator) Generate(context.Context, string, string) (string, error) {
	return g.text, g.err
}

func TestComposer_RenderAnalysis_ReturnsGeneratorOutputVerbatim(t *testing.T) {
	c := New(&stubGenerator{text: "X"}, arbor.NewLogger())

	body := c.RenderAnalysis(context.Background(), models.ReportAggregate{Date: "2025-09-01"})

	// Single attempt, no post-processing: the generator's text is the body.
	assert.Equal(t, "X", body)
}

func TestComposer_RenderAnalysis_DegradesOnGeneratorError(t *testing.T) {
	c := New(&stubGenerator{err: errors.New("upstream 500")}, arbor.NewLogger())

	body := c.RenderAnalysis(context.Background(), models.ReportAggregate{})

	assert.Equal(t, DegradedAnalysisBody, body)
}

func TestComposer_RenderAnalysis_DegradesWhenUnconfigured(t *testing.T) {
	c := New(&stubGenerator{err: interfaces.ErrGeneratorNotConfigured}, arbor.NewLogger())

	body := c.RenderAnalysis(context.Background(), models.ReportAggregate{})

	assert.Equal(t, DegradedAnalysisBody, body)
}

func TestComposer_RenderAnalysis_DegradesWithNilGenerator(t *testing.T) {
	c := New(nil, arbor.NewLogger())

	body := c.RenderAnalysis(context.Background(), models.ReportAggregate{})

	assert.Equal(t, DegradedAnalysisBody, body)
}

func TestComposer_Render_RejectsUnknownMode(t *testing.T) {
	c := New(nil, arbor.NewLogger())

	_, err := c.Render(context.Background(), models.ReportKindDaily, models.ReportMode("summary"), models.ReportAggregate{})

	assert.Error(t, err)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Daily Report (DATA) — 2025-09-01",
		Title(models.ReportKindDaily, models.ReportModeData, "2025-09-01"))
	assert.Equal(t, "Weekly Report — 2025-09-01",
		Title(models.ReportKindWeekly, models.ReportModeAnalysis, "2025-09-01"))
	assert.Equal(t, "Monthly Report — 2025-09-01",
		Title(models.ReportKindMonthly, models.ReportModeAnalysis, "2025-09-01"))
}

func TestBuildAnalysisPrompt(t *testing.T) {
	agg := models.ReportAggregate{
		Date: "2025-09-01",
		Headlines: []models.Headline{
			{Title: "반도체 수출 회복", URL: "https://example.com/1", Source: "Yonhap News"},
		},
		Profile: models.UserProfile{
			RiskPreference: "neutral",
			Interests:      []string{"semiconductors", "real estate"},
		},
	}

	system, user := BuildAnalysisPrompt(agg)

	assert.Contains(t, system, "Korean macro & markets analyst")
	assert.Contains(t, user, "```json")
	assert.Contains(t, user, "\"date\": \"2025-09-01\"")
	assert.Contains(t, user, "[1] **반도체 수출 회복**")
	assert.Contains(t, user, "risk preference: neutral")
	assert.Contains(t, user, "semiconductors, real estate")
	assert.Contains(t, user, "[TASK]")
}

func TestBuildAnalysisPrompt_NoHeadlines(t *testing.T) {
	_, user := BuildAnalysisPrompt(models.ReportAggregate{Date: "2025-09-01"})

	require.Contains(t, user, "No headlines were collected")
}
