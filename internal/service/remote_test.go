package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"microblogSync/internal/apperrors"
)

func TestParseProfile(t *testing.T) {
	profile, err := parseProfile(profileBody)
	require.NoError(t, err)

	assert.Equal(t, "Alice", profile.UserName)
	assert.Equal(t, "42", profile.RemoteID)
	assert.Equal(t, "hi there", profile.StatusText)
	assert.Equal(t, time.Date(2008, time.August, 27, 13, 8, 45, 0, time.UTC), profile.UserCreatedAt.UTC())
}

func TestParseProfile_WithoutStatus(t *testing.T) {
	profile, err := parseProfile(`{"id_str":"42","name":"Alice","created_at":"2008-08-27T13:08:45Z"}`)
	require.NoError(t, err)

	assert.Empty(t, profile.StatusText)
}

func TestParseProfile_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"пустое тело", ""},
		{"null", "null"},
		{"битый JSON", `{"id_str":`},
		{"без id", `{"name":"Alice","created_at":"Wed Aug 27 13:08:45 +0000 2008"}`},
		{"неверная дата", `{"id_str":"42","created_at":"yesterday"}`},
		{"массив вместо объекта", `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseProfile(tt.body)
			assert.ErrorIs(t, err, apperrors.ErrParse)
		})
	}
}

func TestParseTimeline(t *testing.T) {
	records, err := parseTimeline(timelineBody)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "2", records[0].RemoteID)
	assert.Equal(t, "second", records[0].Text)
	assert.Equal(t, "Alice", records[0].UserName)
	assert.True(t, records[0].UserCreatedAt.After(records[1].UserCreatedAt))
}

func TestParseTimeline_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"пустое тело", "  "},
		{"объект вместо массива", `{"id_str":"1"}`},
		{"пост без user", `[{"id_str":"1","text":"x","created_at":"Wed Aug 27 13:08:45 +0000 2008"}]`},
		{"пост без id", `[{"text":"x","created_at":"Wed Aug 27 13:08:45 +0000 2008","user":{"name":"A"}}]`},
		{"пост с неверной датой", `[{"id_str":"1","created_at":"soon","user":{"name":"A"}}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseTimeline(tt.body)
			assert.ErrorIs(t, err, apperrors.ErrParse)
		})
	}
}

func TestParseAck(t *testing.T) {
	id, err := parseAck(`{"id_str":"100","text":"hello"}`)
	require.NoError(t, err)
	assert.Equal(t, "100", id)

	_, err = parseAck(`{"errors":[{"code":187,"message":"Status is a duplicate."}]}`)
	assert.ErrorIs(t, err, apperrors.ErrParse)

	_, err = parseAck("")
	assert.ErrorIs(t, err, apperrors.ErrParse)
}
