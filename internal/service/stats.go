package service

import (
	"sort"
	"strings"
	"time"

	"github.com/set-night/gratax/internal/config"
	"github.com/set-night/gratax/internal/domain"
)

const unknownQuestion = "Unknown question"

func computeStatistics(conversations []domain.Conversation, now time.Time, loc *time.Location) *domain.Stats {
	stats := &domain.Stats{
		Today:               domain.TodayStats{Languages: map[string]int{}},
		TopQuestions:        []domain.QuestionStat{},
		Unanswered:          []string{},
		RecentConversations: []domain.Conversation{},
	}
	today := now.In(loc).Format(time.DateOnly)

	counts := map[string]int{}
	var order []string
	seen := map[string]bool{}

	for _, conv := range conversations {
		stats.AllTime.TotalConversations++
		stats.AllTime.TotalMessages += len(conv.Messages)
		stats.Today.Languages[conv.Language]++

		if conv.StartedAt.In(loc).Format(time.DateOnly) == today {
			stats.Today.TotalConversations++
			stats.Today.TotalMessages += len(conv.Messages)
		}

		for i := range conv.Messages {
			msg := &conv.Messages[i]

			if msg.Role == domain.RoleUser {
				q := strings.ToLower(strings.TrimSpace(msg.Content))
				if _, ok := counts[q]; !ok {
					order = append(order, q)
				}
				counts[q]++
			}

			// The message before a fallback reply is taken as the question it
			// failed to answer. This is an approximation.
			if msg.IsFallback() {
				question := unknownQuestion
				if i > 0 && conv.Messages[i-1].Content != "" {
					question = conv.Messages[i-1].Content
				}
				if !seen[question] {
					seen[question] = true
					stats.Unanswered = append(stats.Unanswered, question)
				}
			}
		}
	}

	for _, q := range order {
		stats.TopQuestions = append(stats.TopQuestions, domain.QuestionStat{Question: q, Count: counts[q]})
	}
	sort.SliceStable(stats.TopQuestions, func(i, j int) bool {
		return stats.TopQuestions[i].Count > stats.TopQuestions[j].Count
	})
	if len(stats.TopQuestions) > config.TopQuestionsLimit {
		stats.TopQuestions = stats.TopQuestions[:config.TopQuestionsLimit]
	}
	if len(stats.Unanswered) > config.UnansweredLimit {
		stats.Unanswered = stats.Unanswered[:config.UnansweredLimit]
	}

	recent := min(len(conversations), config.RecentConversationsLimit)
	stats.RecentConversations = append(stats.RecentConversations, conversations[:recent]...)

	return stats
}
