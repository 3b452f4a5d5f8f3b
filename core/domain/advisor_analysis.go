package domain

// FactorScore is one scoring factor's contribution.
type FactorScore struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
	Max    int    `json:"max"`
}

// ScoreBreakdown is the deterministic appropriateness score.
type ScoreBreakdown struct {
	Total   int           `json:"total"`
	Factors []FactorScore `json:"factors"`
}

// AnalysisResponse is everything extracted from one AI analysis reply.
type AnalysisResponse struct {
	Score           int               `json:"score"`
	Analysis        string            `json:"analysis"`
	Text            []TextSuggestion  `json:"text_suggestions"`
	Style           []StyleSuggestion `json:"style_suggestions"`
	Elements        []ImageSuggestion `json:"elements_suggestions"`
	Color           []ColorSuggestion `json:"color_suggestions"`
	Recommendations []string          `json:"recommendations"`
}

// Suggestions returns every suggestion in display order.
func (r AnalysisResponse) Suggestions() []Suggestion {
	out := make([]Suggestion, 0, len(r.Text)+len(r.Style)+len(r.Elements)+len(r.Color))
	for _, s := range r.Text {
		out = append(out, s)
	}
	for _, s := range r.Style {
		out = append(out, s)
	}
	for _, s := range r.Elements {
		out = append(out, s)
	}
	for _, s := range r.Color {
		out = append(out, s)
	}
	return out
}

// HasSuggestions reports whether anything actionable was parsed.
func (r AnalysisResponse) HasSuggestions() bool {
	return len(r.Text)+len(r.Style)+len(r.Elements)+len(r.Color)+len(r.Recommendations) > 0
}
