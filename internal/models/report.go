package models

import (
	"time"

	"microblogSync/internal/apperrors"
)

const (
	PhaseCredentials = "credentials"
	PhaseProfile     = "profile"
	PhaseTimeline    = "timeline"
	PhaseQueue       = "queue"
)

type PhaseError struct {
	Phase   string `json:"phase"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// PostsRemainingUnknown marks a report whose pass never read the outgoing queue.
const PostsRemainingUnknown = -1

// SyncReport is the outcome of one sync pass.
type SyncReport struct {
	Account           string       `json:"-"`
	StartedAt         time.Time    `json:"startedAt"`
	FinishedAt        time.Time    `json:"finishedAt"`
	ProfileUpdated    bool         `json:"profileUpdated"`
	TimelineInserted  int          `json:"timelineInserted"`
	PostsUploaded     int          `json:"postsUploaded"`
	PostsRemaining    int          `json:"postsRemaining"`
	NetworkErrors     int          `json:"networkErrors"`
	ParseErrors       int          `json:"parseErrors"`
	AuthErrors        int          `json:"authErrors"`
	ConsistencyFaults int          `json:"consistencyFaults"`
	Errors            []PhaseError `json:"errors"`
}

func NewSyncReport(account string, startedAt time.Time) *SyncReport {
	return &SyncReport{
		Account:        account,
		StartedAt:      startedAt,
		PostsRemaining: PostsRemainingUnknown,
		Errors:         []PhaseError{},
	}
}

// Record classifies err and bumps the matching counter. It returns the kind.
func (r *SyncReport) Record(phase string, err error) string {
	kind := apperrors.Kind(err)
	switch kind {
	case "":
		return ""
	case "parse":
		r.ParseErrors++
	case "auth":
		r.AuthErrors++
	case "consistency":
		r.ConsistencyFaults++
	default:
		r.NetworkErrors++
	}

	r.Errors = append(r.Errors, PhaseError{Phase: phase, Kind: kind, Message: err.Error()})
	return kind
}

func (r *SyncReport) HasErrors() bool {
	return len(r.Errors) > 0
}
