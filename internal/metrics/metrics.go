// Package metrics records sync counters with VictoriaMetrics/metrics and
// exposes them in Prometheus text format.
package metrics

import (
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"microblogSync/internal/models"
)

var enabled atomic.Bool

func init() {
	enabled.Store(true)
}

// SetEnabled switches recording on or off; the /metrics handler keeps working.
func SetEnabled(v bool) {
	enabled.Store(v)
}

func IsEnabled() bool {
	return enabled.Load()
}

// RecordPass records the outcome of one sync pass.
func RecordPass(report *models.SyncReport) {
	if !IsEnabled() || report == nil {
		return
	}

	metrics.GetOrCreateCounter(`microblog_sync_passes_total{success="` + strconv.FormatBool(!report.HasErrors()) + `"}`).Inc()
	metrics.GetOrCreateCounter(`microblog_sync_posts_uploaded_total`).Add(report.PostsUploaded)
	metrics.GetOrCreateCounter(`microblog_sync_timeline_records_total`).Add(report.TimelineInserted)
	if report.PostsRemaining != models.PostsRemainingUnknown {
		metrics.GetOrCreateGauge(`microblog_sync_posts_pending`, nil).Set(float64(report.PostsRemaining))
	}

	for _, e := range report.Errors {
		RecordError(e.Phase, e.Kind)
	}

	if !report.FinishedAt.IsZero() {
		metrics.GetOrCreateHistogram(`microblog_sync_pass_duration_seconds`).Update(report.FinishedAt.Sub(report.StartedAt).Seconds())
	}
}

func RecordError(phase, kind string) {
	if !IsEnabled() {
		return
	}
	metrics.GetOrCreateCounter(`microblog_sync_errors_total{phase="` + phase + `",kind="` + kind + `"}`).Inc()
}

// RecordPassSkipped counts on-demand passes rejected because one was already running.
func RecordPassSkipped() {
	if !IsEnabled() {
		return
	}
	metrics.GetOrCreateCounter(`microblog_sync_passes_skipped_total`).Inc()
}

func RecordHandshake(success bool) {
	if !IsEnabled() {
		return
	}
	metrics.GetOrCreateCounter(`microblog_oauth_handshakes_total{success="` + strconv.FormatBool(success) + `"}`).Inc()
}

func RecordRequest(method string, status int, duration time.Duration) {
	if !IsEnabled() {
		return
	}
	metrics.GetOrCreateCounter(`microblog_http_requests_total{method="` + method + `",status="` + strconv.Itoa(status) + `"}`).Inc()
	metrics.GetOrCreateHistogram(`microblog_http_request_duration_seconds`).Update(duration.Seconds())
}

// Handler serves all registered metrics.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w, true)
	})
}
