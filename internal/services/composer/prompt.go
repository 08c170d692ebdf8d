package composer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/twokomi/oneclick-reports-backend/internal/models"
)

// systemInstruction fixes the analyst persona, tone, and grounding
// constraint for every analysis request.
const systemInstruction = "You are a Korean macro & markets analyst writing for one reader. " +
	"Style: concise, neutral, actionable. Explain technical terms briefly. " +
	"Ground every claim in the provided data and news links; never invent figures."

// BuildAnalysisPrompt serializes the aggregate into the system and user
// instructions for the text-generation collaborator. The user prompt
// carries the full aggregate as JSON, a numbered restatement of the
// headlines, and the fixed eight-point task list.
func BuildAnalysisPrompt(agg models.ReportAggregate) (system, user string) {
	var b strings.Builder

	b.WriteString("Write a markdown report from the JSON data and the RSS news links below.\n\n")

	b.WriteString("## Provided data\n\n```json\n")
	if data, err := json.MarshalIndent(agg, "", "  "); err == nil {
		b.Write(data)
	}
	b.WriteString("\n```\n\n")

	b.WriteString("### Today's news headlines (RSS)\n\n")
	if len(agg.Headlines) == 0 {
		b.WriteString("No headlines were collected (feed failures).\n\n")
	} else {
		for i, h := range agg.Headlines {
			b.WriteString(fmt.Sprintf("[%d] **%s**\n", i+1, h.Title))
			b.WriteString(fmt.Sprintf("   - Source: %s\n", h.Source))
			if h.URL != "" {
				b.WriteString(fmt.Sprintf("   - Link: %s\n", h.URL))
			}
			if h.Published != "" {
				b.WriteString(fmt.Sprintf("   - Published: %s\n", h.Published))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("[TASK]\n")
	b.WriteString("1) Summary in 3-5 paragraphs describing the current market situation, referencing the headlines.\n")
	b.WriteString("2) Key data table (indicator / value / change vs prior period and year / consensus / comment).\n")
	b.WriteString("3) Macro interpretation: inflation, growth, employment, policy — 2-3 sentences each, tied to the news.\n")
	b.WriteString("4) Market reaction and points to watch, centered on issues raised in the headlines.\n")
	b.WriteString("5) Top 3 risks, each with a concrete scenario.\n")
	b.WriteString(fmt.Sprintf("6) Reader-tailored comment (risk preference: %s; interest sectors: %s). Avoid overconfidence.\n",
		agg.Profile.RiskPreference, strings.Join(agg.Profile.Interests, ", ")))
	b.WriteString("7) Cite the headlines inline as [1], [2], [3]... where used.\n")
	b.WriteString("8) End with a \"### News Sources\" section listing every link.\n\n")
	b.WriteString("Output professional yet accessible markdown.\n")

	return systemInstruction, b.String()
}
