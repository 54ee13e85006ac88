package domain

// ChatRequest is what the front-end hands to a responder for one user turn.
type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
	Language       string `json:"language"`
	UserID         string `json:"user_id"`
}

type Response struct {
	Text               string     `json:"text"`
	Citations          []Citation `json:"citations"`
	Confidence         float64    `json:"confidence"`
	LanguageDetected   string     `json:"language_detected"`
	SuggestedFollowups []string   `json:"suggested_followups"`
}

func (r *Response) HasCitations() bool {
	return len(r.Citations) > 0
}
