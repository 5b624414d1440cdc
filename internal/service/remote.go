package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"microblogSync/internal/apperrors"
	"microblogSync/internal/models"
)

// remote API payloads; only the fields the sync engine stores are decoded
type remoteUser struct {
	IDStr      string        `json:"id_str"`
	Name       string        `json:"name"`
	ScreenName string        `json:"screen_name"`
	CreatedAt  string        `json:"created_at"`
	Status     *remoteStatus `json:"status"`
}

type remoteStatus struct {
	IDStr     string      `json:"id_str"`
	Text      string      `json:"text"`
	CreatedAt string      `json:"created_at"`
	User      *remoteUser `json:"user"`
}

// parseRemoteTime accepts the service's "Wed Aug 27 13:08:45 +0000 2008"
// format and RFC 3339.
func parseRemoteTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RubyDate, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: неверная дата %q", apperrors.ErrParse, value)
	}
	return t, nil
}

func checkBody(body string) error {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" || trimmed == "null" {
		return fmt.Errorf("%w: пустой ответ", apperrors.ErrParse)
	}
	return nil
}

// parseProfile decodes verify_credentials. A user without a current status
// gets an empty status text.
func parseProfile(body string) (*models.Profile, error) {
	if err := checkBody(body); err != nil {
		return nil, err
	}

	var user remoteUser
	if err := json.Unmarshal([]byte(body), &user); err != nil {
		return nil, fmt.Errorf("%w: профиль: %v", apperrors.ErrParse, err)
	}
	if user.IDStr == "" {
		return nil, fmt.Errorf("%w: в профиле нет id_str", apperrors.ErrParse)
	}

	createdAt, err := parseRemoteTime(user.CreatedAt)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		UserName:      user.Name,
		ScreenName:    user.ScreenName,
		RemoteID:      user.IDStr,
		UserCreatedAt: createdAt,
	}
	if user.Status != nil {
		profile.StatusText = user.Status.Text
	}

	return profile, nil
}

// parseTimeline decodes a JSON array of posts. Every post must carry its
// author, its id and its creation time.
func parseTimeline(body string) ([]models.TimelineRecord, error) {
	if err := checkBody(body); err != nil {
		return nil, err
	}

	var statuses []remoteStatus
	if err := json.Unmarshal([]byte(body), &statuses); err != nil {
		return nil, fmt.Errorf("%w: лента: %v", apperrors.ErrParse, err)
	}

	records := make([]models.TimelineRecord, 0, len(statuses))
	for i, status := range statuses {
		if status.User == nil {
			return nil, fmt.Errorf("%w: пост %d без user", apperrors.ErrParse, i)
		}
		if status.IDStr == "" {
			return nil, fmt.Errorf("%w: пост %d без id_str", apperrors.ErrParse, i)
		}

		createdAt, err := parseRemoteTime(status.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("пост %d: %w", i, err)
		}

		records = append(records, models.TimelineRecord{
			UserName:      status.User.Name,
			RemoteID:      status.IDStr,
			UserCreatedAt: createdAt,
			Text:          status.Text,
		})
	}

	return records, nil
}

// parseAck extracts the id of a post the service accepted.
func parseAck(body string) (string, error) {
	if err := checkBody(body); err != nil {
		return "", err
	}

	var status remoteStatus
	if err := json.Unmarshal([]byte(body), &status); err != nil {
		return "", fmt.Errorf("%w: подтверждение публикации: %v", apperrors.ErrParse, err)
	}
	if status.IDStr == "" {
		return "", fmt.Errorf("%w: в подтверждении нет id_str", apperrors.ErrParse)
	}

	return status.IDStr, nil
}
