package models

import "time"

// DateLayout is the calendar-date format of UsageRecord.Date.
const DateLayout = "2006-01-02"

// UsageRecord is the persisted, date-scoped local usage counter.
type UsageRecord struct {
	Date       string     `json:"date"`
	Count      int        `json:"count"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
}

// RemoteUsage is the backend's authoritative usage of a registered user.
type RemoteUsage struct {
	UsedToday  int `json:"usedToday"`
	DailyLimit int `json:"dailyLimit"`
}
