package config

import "time"

const (
	// Persisted key names. Values are JSON unless noted.
	KeyConversations       = "gra_conversations"
	KeyCurrentConversation = "gra_current_conversation" // plain text
	KeyLanguage            = "gra_language"             // plain text
	KeyUserID              = "gra_user_id"              // plain text

	// Remote endpoint paths, relative to WEBHOOK_URL.
	EndpointChat  = "/chat"
	EndpointStats = "/stats"

	// Statistics limits
	TopQuestionsLimit        = 10
	UnansweredLimit          = 5
	RecentConversationsLimit = 20

	// Telegram limits
	MaxTelegramMessageLen = 4096
	MaxCallbackDataLen    = 64

	// Storage
	StoragePingTimeout = 3 * time.Second
	BoltOpenTimeout    = time.Second

	// Typing indicator refresh
	TypingInterval = 4 * time.Second
)

// StorageKeys lists every key the conversation store owns.
var StorageKeys = []string{
	KeyConversations,
	KeyCurrentConversation,
	KeyLanguage,
	KeyUserID,
}
