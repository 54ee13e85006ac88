package service

import "github.com/google/uuid"

// NewID returns an opaque identifier such as "msg_3f0c...".
func NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}
