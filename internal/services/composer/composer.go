// Package composer turns a report aggregate into report markdown, in
// one of two terminal modes: deterministic data rendering or delegated
// narrative analysis.
package composer

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/twokomi/oneclick-reports-backend/internal/interfaces"
	"github.com/twokomi/oneclick-reports-backend/internal/models"
)

// DegradedAnalysisBody is the fixed body substituted when the
// text-generation collaborator cannot produce a narrative (missing
// credential, transport error, or provider failure). It is clearly
// labeled and never pretends to contain analysis.
const DegradedAnalysisBody = "**Analysis unavailable.**\n\n" +
	"The text-generation service could not be reached or is not configured, " +
	"so no narrative was produced for this report. The underlying data was " +
	"collected normally; re-run in data mode to see it, or retry analysis " +
	"mode once a generation credential (GEMINI_API_KEY or ANTHROPIC_API_KEY) " +
	"is available."

// Composer renders report bodies. Data mode is a pure function of the
// aggregate; analysis mode delegates to the generator with a single
// attempt and no retry.
type Composer struct {
	generator interfaces.TextGenerator
	logger    arbor.ILogger
}

// New creates a composer. The generator may be nil, in which case
// analysis mode always degrades.
func New(generator interfaces.TextGenerator, logger arbor.ILogger) *Composer {
	return &Composer{
		generator: generator,
		logger:    logger,
	}
}

// Render produces the report body for the requested kind and mode.
func (c *Composer) Render(ctx context.Context, kind models.ReportKind, mode models.ReportMode, agg models.ReportAggregate) (string, error) {
	switch mode {
	case models.ReportModeData:
		return c.RenderData(kind, agg), nil
	case models.ReportModeAnalysis:
		return c.RenderAnalysis(ctx, agg), nil
	default:
		return "", fmt.Errorf("unknown report mode '%s'", mode)
	}
}

// RenderAnalysis asks the text-generation collaborator for a narrative
// report. Any failure yields the fixed degraded body; the failure never
// propagates past this boundary.
func (c *Composer) RenderAnalysis(ctx context.Context, agg models.ReportAggregate) string {
	if c.generator == nil {
		if c.logger != nil {
			c.logger.Warn().Msg("no text generator wired, returning degraded analysis body")
		}
		return DegradedAnalysisBody
	}

	system, user := BuildAnalysisPrompt(agg)

	text, err := c.generator.Generate(ctx, system, user)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn().Err(err).Msg("text generation failed, returning degraded analysis body")
		}
		return DegradedAnalysisBody
	}
	return text
}

// Title formats the stored report title. Data mode carries an explicit
// mode marker so a reader can tell the rendering path at a glance.
func Title(kind models.ReportKind, mode models.ReportMode, date string) string {
	capitalized := capitalize(string(kind))
	if mode == models.ReportModeData {
		return fmt.Sprintf("%s Report (DATA) — %s", capitalized, date)
	}
	return fmt.Sprintf("%s Report — %s", capitalized, date)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
