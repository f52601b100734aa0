package model

import "time"

// SystemSetting is a key/value configuration row. Secret values are stored
// fernet-encrypted; Encrypted records which form the value column holds.
type SystemSetting struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	Encrypted bool      `json:"encrypted"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}
