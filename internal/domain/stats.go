package domain

type Stats struct {
	Today               TodayStats     `json:"today"`
	AllTime             AllTimeStats   `json:"all_time"`
	TopQuestions        []QuestionStat `json:"top_questions"`
	Unanswered          []string       `json:"unanswered"`
	RecentConversations []Conversation `json:"recent_conversations"`
}

type TodayStats struct {
	TotalConversations int `json:"total_conversations"`
	TotalMessages      int `json:"total_messages"`
	// Languages counts conversations per language code across the whole
	// collection, not just today's.
	Languages map[string]int `json:"languages"`
}

type AllTimeStats struct {
	TotalConversations int `json:"total_conversations"`
	TotalMessages      int `json:"total_messages"`
}

type QuestionStat struct {
	Question string `json:"question"`
	Count    int    `json:"count"`
}
