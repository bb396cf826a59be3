package entity

import "time"

type MemoryEntry struct {
	ID        int64       `json:"id"`
	SessionID string      `json:"session_id"`
	Timestamp time.Time   `json:"timestamp"`
	Content   string      `json:"content"`
	Role      MessageRole `json:"role"`
}
