// Package timeline describes which window of the remote feed a sync pass fetches.
package timeline

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// MaxCount is the largest page size the remote API accepts.
const MaxCount = 200

// Selector is not validated: SinceID and MaxID are mutually exclusive and
// SinceID wins when the caller sets both.
type Selector struct {
	URL     string
	SinceID *int64
	MaxID   *int64
	Count   *int
	Page    *int
}

type Param struct {
	Key   string
	Value string
}

func NewSelector(rawURL string, count int) Selector {
	return Selector{URL: rawURL, Count: &count}
}

// BuildQuery returns the query parameters in their fixed order:
// since_id or max_id, then count (clamped to MaxCount), then page.
func BuildQuery(s Selector) []Param {
	params := make([]Param, 0, 3)

	if s.SinceID != nil {
		params = append(params, Param{Key: "since_id", Value: strconv.FormatInt(*s.SinceID, 10)})
	} else if s.MaxID != nil {
		params = append(params, Param{Key: "max_id", Value: strconv.FormatInt(*s.MaxID, 10)})
	}

	if s.Count != nil {
		count := *s.Count
		if count > MaxCount {
			count = MaxCount
		}
		params = append(params, Param{Key: "count", Value: strconv.Itoa(count)})
	}

	if s.Page != nil {
		params = append(params, Param{Key: "page", Value: strconv.Itoa(*s.Page)})
	}

	return params
}

// BuildURL appends BuildQuery to the selector URL, keeping any query it already has.
func (s Selector) BuildURL() (string, error) {
	u, err := url.Parse(s.URL)
	if err != nil {
		return "", fmt.Errorf("неверный URL ленты %q: %w", s.URL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("неверный URL ленты %q: нет схемы или хоста", s.URL)
	}

	var b strings.Builder
	b.WriteString(u.RawQuery)
	for _, p := range BuildQuery(s) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	u.RawQuery = b.String()

	return u.String(), nil
}
