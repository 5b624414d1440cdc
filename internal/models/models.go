package models

import (
	"time"
)

// Credential is the OAuth key material for one account. The request pair is
// only meaningful during a handshake and is never written to the database.
type Credential struct {
	Account       string    `json:"account" db:"account"`
	AccessToken   string    `json:"-" db:"access_token"`
	AccessSecret  string    `json:"-" db:"access_secret"`
	RequestToken  string    `json:"-" db:"-"`
	RequestSecret string    `json:"-" db:"-"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

func (c *Credential) HasAccess() bool {
	return c != nil && c.AccessToken != "" && c.AccessSecret != ""
}

type Profile struct {
	Account       string    `json:"-" db:"account"`
	UserName      string    `json:"userName" db:"user_name"`
	ScreenName    string    `json:"screenName" db:"screen_name"`
	RemoteID      string    `json:"remoteId" db:"remote_id"`
	UserCreatedAt time.Time `json:"userCreatedAt" db:"user_created_at"`
	StatusText    string    `json:"statusText" db:"status_text"`
	LastUpdated   time.Time `json:"lastUpdated" db:"last_updated"`
}

type TimelineRecord struct {
	RecordID      string    `json:"recordId" db:"record_id"`
	Account       string    `json:"-" db:"account"`
	UserName      string    `json:"userName" db:"user_name"`
	RemoteID      string    `json:"remoteId" db:"remote_id"`
	UserCreatedAt time.Time `json:"userCreatedAt" db:"user_created_at"`
	Text          string    `json:"text" db:"text"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// PendingPost is a locally composed post waiting to be uploaded.
type PendingPost struct {
	PostID         string     `json:"postId" db:"post_id"`
	Account        string     `json:"-" db:"account"`
	IdempotencyKey string     `json:"idempotencyKey" db:"idempotency_key"`
	Text           string     `json:"text" db:"text"`
	Attempts       int        `json:"attempts" db:"attempts"`
	LastAttemptAt  *time.Time `json:"lastAttemptAt,omitempty" db:"last_attempt_at"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
}

// TableCounts holds the row count of each sync table.
type TableCounts struct {
	Credentials     int `json:"credentials" db:"credentials"`
	Profiles        int `json:"profiles" db:"profiles"`
	TimelineRecords int `json:"timelineRecords" db:"timeline_records"`
	PendingPosts    int `json:"pendingPosts" db:"pending_posts"`
}
