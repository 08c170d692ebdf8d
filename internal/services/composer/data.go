package composer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/twokomi/oneclick-reports-backend/internal/models"
)

// RenderData formats the collected aggregate as markdown without any
// generation service. It is deterministic: the same aggregate always
// produces byte-identical output. A section is emitted only when its
// aggregate field is non-empty; absent sections are omitted entirely.
func (c *Composer) RenderData(kind models.ReportKind, agg models.ReportAggregate) string {
	return renderData(kind, agg)
}

func renderData(kind models.ReportKind, agg models.ReportAggregate) string {
	lines := []string{
		fmt.Sprintf("# %s Data Report", strings.ToUpper(string(kind))),
		fmt.Sprintf("**Date**: %s", agg.Date),
		"",
		"---",
		"",
	}

	if !agg.Snapshot.IsEmpty() {
		lines = append(lines, "## Market Snapshot", "")
		lines = append(lines, levelTable("Indices", "Index", "Level", agg.Snapshot.Indices, formatLevel)...)
		lines = append(lines, levelTable("FX", "Pair", "Rate", agg.Snapshot.FX, formatLevel)...)
		lines = append(lines, levelTable("Rates", "Instrument", "Rate (%)", agg.Snapshot.Rates, formatRate)...)
		lines = append(lines, levelTable("Commodities", "Commodity", "Price", agg.Snapshot.Commodities, formatPrice)...)
	}

	if len(agg.Macro) > 0 {
		lines = append(lines,
			"---",
			"",
			"## Macro Indicators",
			"",
			"| Indicator | Latest | Note |",
			"|-----------|-------:|------|",
		)
		for _, obs := range agg.Macro {
			lines = append(lines, fmt.Sprintf("| %s | %.2f | %s |", obs.Name, obs.Latest, obs.Note))
		}
		lines = append(lines, "")
	}

	if len(agg.Headlines) > 0 {
		lines = append(lines,
			"---",
			"",
			"## News Headlines (RSS)",
			"",
		)
		for i, h := range agg.Headlines {
			title := h.Title
			if title == "" {
				title = "(untitled)"
			}
			lines = append(lines, fmt.Sprintf("### [%d] %s", i+1, title))
			lines = append(lines, fmt.Sprintf("- **Source**: %s", h.Source))
			if h.URL != "" {
				lines = append(lines, fmt.Sprintf("- **Link**: [%s](%s)", h.URL, h.URL))
			}
			if h.Published != "" {
				lines = append(lines, fmt.Sprintf("- **Published**: %s", h.Published))
			}
			lines = append(lines, "")
		}
	}

	if agg.Profile.RiskPreference != "" || len(agg.Profile.Interests) > 0 {
		lines = append(lines,
			"---",
			"",
			"## Reader Profile",
			"",
			fmt.Sprintf("- **Risk preference**: %s", agg.Profile.RiskPreference),
			fmt.Sprintf("- **Interest sectors**: %s", strings.Join(agg.Profile.Interests, ", ")),
			"",
		)
	}

	lines = append(lines,
		"---",
		"",
		"## Data Sources",
		"",
		"- **Market data**: point-in-time snapshot (FRED)",
		"- **Macro series**: FRED and ECOS APIs",
		"- **News**: RSS feeds (Yonhap, Korea Economic Daily, Google News)",
		"",
		"---",
		"",
		"*Generated in data collection mode. Choose analysis mode for a narrative interpretation.*",
	)

	return strings.Join(lines, "\n")
}

// levelTable renders one snapshot sub-mapping as a two-column markdown
// table in key-sorted order, or nothing when the mapping is empty.
func levelTable(heading, keyCol, valueCol string, levels map[string]float64, format func(float64) string) []string {
	if len(levels) == 0 {
		return nil
	}

	keys := make([]string, 0, len(levels))
	for k := range levels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := []string{
		fmt.Sprintf("### %s", heading),
		"",
		fmt.Sprintf("| %s | %s |", keyCol, valueCol),
		fmt.Sprintf("|%s|%s:|", strings.Repeat("-", len(keyCol)+2), strings.Repeat("-", len(valueCol)+1)),
	}
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("| %s | %s |", k, format(levels[k])))
	}
	lines = append(lines, "")
	return lines
}

// formatLevel renders index and FX levels with two decimals and
// thousands separators.
func formatLevel(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

// formatRate renders rates with two decimals and a percent suffix.
func formatRate(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// formatPrice renders commodity prices with a dollar prefix.
func formatPrice(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}
