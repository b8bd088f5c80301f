package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	DocumentUploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "insurehub", Name: "document_uploads_total", Help: "Number of document upload attempts by outcome."},
		[]string{"outcome"},
	)
	DocumentDeletes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "insurehub", Name: "document_deletes_total", Help: "Number of document delete attempts by outcome."},
		[]string{"outcome"},
	)
	BlobOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "insurehub", Name: "blob_operations_total", Help: "Blob store operations by op and outcome."},
		[]string{"op", "outcome"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "insurehub", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "insurehub", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(DocumentUploads)
	reg.MustRegister(DocumentDeletes)
	reg.MustRegister(BlobOperations)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
