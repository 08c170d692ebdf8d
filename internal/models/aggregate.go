package models

// Headline is a single news item collected from an RSS source feed.
// Headlines are immutable once built; ordering is provider priority then
// feed order.
type Headline struct {
	Title     string `json:"title"`
	URL       string `json:"url,omitempty"`
	Source    string `json:"source"`
	Published string `json:"published,omitempty"`
}

// MacroObservation is the latest value of one macroeconomic series.
// The note typically carries the observation's as-of date. Two providers
// covering the same concept produce two entries; provenance differs, so
// they are not deduplicated.
type MacroObservation struct {
	Name   string  `json:"name"`
	Latest float64 `json:"latest"`
	Note   string  `json:"note,omitempty"`
}

// MarketSnapshot is a sparse point-in-time view of market levels. Only
// concepts a source actually returned are present.
type MarketSnapshot struct {
	Indices     map[string]float64 `json:"indices,omitempty"`
	FX          map[string]float64 `json:"fx,omitempty"`
	Rates       map[string]float64 `json:"rates,omitempty"`
	Commodities map[string]float64 `json:"commodities,omitempty"`
}

// IsEmpty reports whether no market concept has been populated.
func (s MarketSnapshot) IsEmpty() bool {
	return len(s.Indices) == 0 && len(s.FX) == 0 && len(s.Rates) == 0 && len(s.Commodities) == 0
}

func cloneLevels(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Clone returns a deep copy of the snapshot.
func (s MarketSnapshot) Clone() MarketSnapshot {
	return MarketSnapshot{
		Indices:     cloneLevels(s.Indices),
		FX:          cloneLevels(s.FX),
		Rates:       cloneLevels(s.Rates),
		Commodities: cloneLevels(s.Commodities),
	}
}

// UserProfile is the static per-deployment reader profile. It is
// configured, never discovered.
type UserProfile struct {
	RiskPreference string   `json:"risk_preference"`
	Interests      []string `json:"interests"`
}

// ReportAggregate is the single unit of work of the pipeline: assembled
// once per request from the news and macro stages, then treated as
// read-only. Enrichment stages clone it rather than mutating in place.
// The aggregate itself is never persisted, only the report rendered
// from it.
type ReportAggregate struct {
	Date      string             `json:"date"` // aggregation-time local date
	Snapshot  MarketSnapshot     `json:"snapshot"`
	Macro     []MacroObservation `json:"macro,omitempty"`
	Headlines []Headline         `json:"headlines,omitempty"`
	Profile   UserProfile        `json:"profile"`
}

// Clone returns a deep copy of the aggregate.
func (a ReportAggregate) Clone() ReportAggregate {
	out := a
	out.Snapshot = a.Snapshot.Clone()
	if a.Macro != nil {
		out.Macro = append([]MacroObservation(nil), a.Macro...)
	}
	if a.Headlines != nil {
		out.Headlines = append([]Headline(nil), a.Headlines...)
	}
	if a.Profile.Interests != nil {
		out.Profile.Interests = append([]string(nil), a.Profile.Interests...)
	}
	return out
}

// SourceURLs returns the non-empty headline URLs in headline order.
// A stored report's source list is exactly this sequence.
func (a ReportAggregate) SourceURLs() []string {
	urls := make([]string, 0, len(a.Headlines))
	for _, h := range a.Headlines {
		if h.URL != "" {
			urls = append(urls, h.URL)
		}
	}
	return urls
}
