package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "salon"
	subsystem = "site_api"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 30},
		},
		[]string{"method", "endpoint"},
	)

	ChatMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "chat_messages_total",
			Help:      "Chatbot turns by whether a knowledge base entry matched",
		},
		[]string{"matched"},
	)

	ImportRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "import_rows_total",
			Help:      "CSV import rows by outcome",
		},
		[]string{"result"},
	)

	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "uploads_total",
			Help:      "Total media uploads",
		},
		[]string{"media_type", "status"},
	)

	UploadBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "upload_bytes_total",
			Help:      "Total bytes uploaded",
		},
	)

	InquiriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "inquiries_total",
			Help:      "Inquiries submitted through the contact form",
		},
	)

	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the public rate limiter",
		},
		[]string{"scope"},
	)

	RetentionPurgedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "chat_sessions_purged_total",
			Help:      "Chat sessions removed by the retention job",
		},
	)

	KnowledgeBaseReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "knowledge_base_reloads_total",
			Help:      "Chatbot knowledge base reloads by status",
		},
		[]string{"status"},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

func RecordChatTurn(matched bool) {
	label := "false"
	if matched {
		label = "true"
	}
	ChatMessagesTotal.WithLabelValues(label).Inc()
}

func RecordImport(inserted, failed int) {
	ImportRowsTotal.WithLabelValues("inserted").Add(float64(inserted))
	ImportRowsTotal.WithLabelValues("failed").Add(float64(failed))
}

// RecordUpload records a media upload
func RecordUpload(mediaType, status string, bytes int64) {
	UploadsTotal.WithLabelValues(mediaType, status).Inc()
	if status == "success" {
		UploadBytesTotal.Add(float64(bytes))
	}
}

func RecordKnowledgeBaseReload(ok bool) {
	status := "success"
	if !ok {
		status = "error"
	}
	KnowledgeBaseReloadsTotal.WithLabelValues(status).Inc()
}
