package models

import "time"

// AccessLog is one served HTTP request. UserID is empty for anonymous calls.
type AccessLog struct {
	Base
	UserID    *string `gorm:"type:uuid;index" json:"user_id"`
	Method    string  `gorm:"not null" json:"method"`
	Path      string  `gorm:"not null" json:"path"`
	Status    int     `gorm:"not null" json:"status"`
	LatencyMs int64   `json:"latency_ms"`
	IPAddress string  `json:"ip_address"`
	UserAgent string  `json:"user_agent"`
	RequestID string  `json:"request_id"`
}

// UserAnalytics is a page visit reported by the client. The daily reminder
// job treats a visit dated today as "the user came back".
type UserAnalytics struct {
	Base
	UserID    string    `gorm:"type:uuid;not null;index:idx_user_analytics_user_visited" json:"user_id"`
	SessionID *string   `gorm:"type:uuid" json:"session_id"`
	Page      string    `gorm:"not null" json:"page"`
	VisitedAt time.Time `gorm:"not null;index:idx_user_analytics_user_visited" json:"visited_at"`
}

// UserSession is a server-side login session referenced by the session token.
type UserSession struct {
	Base
	UserID     string     `gorm:"type:uuid;not null;index" json:"user_id"`
	ExpiresAt  time.Time  `gorm:"not null" json:"expires_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	RememberMe bool       `gorm:"not null" json:"remember_me"`
	IPAddress  string     `json:"ip_address"`
	UserAgent  string     `json:"user_agent"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
}

// Active reports whether the session can still authenticate requests.
func (s *UserSession) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
