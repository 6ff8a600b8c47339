package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	otpIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "otp_issued_total",
		Help: "Number of one-time codes issued",
	})

	otpVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_verifications_total",
			Help: "Number of one-time code verification attempts by result",
		},
		[]string{"result"},
	)

	distanceRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "distance_matrix_requests_total",
			Help: "Number of distance matrix calls by top-level status",
		},
		[]string{"status"},
	)
)
