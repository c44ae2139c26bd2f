package types

// ------------------------------
// Request Types
// ------------------------------

// UserPayload is the body of POST /user and PUT /user.
type UserPayload struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	BaseUnderstanding string `json:"base_understanding"`
	JoinDate          string `json:"join_date"`
}

// NewUserPayload converts a profile to its wire shape.
func NewUserPayload(p UserProfile) UserPayload {
	return UserPayload{
		ID:                p.ID,
		Name:              p.DisplayName,
		BaseUnderstanding: p.Level.String(),
		JoinDate:          FormatISOTime(p.JoinDate),
	}
}

// DatePayload is the body of PUT /date and the response of GET /date.
type DatePayload struct {
	CurrentDate string `json:"current_date"`
}

// HistoryPayload is the body of POST/PUT /articles/history.
type HistoryPayload struct {
	UserID      string `json:"user_id"`
	Topic       string `json:"topic"`
	Level       string `json:"level"`
	CurrentDate string `json:"current_date"`
}

// SummarizeRequest is the body of POST /summarize_all_articles.
type SummarizeRequest struct {
	Topic             string `json:"topic"`
	CombinedSummaries string `json:"combined_summaries"`
}
