package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AttendanceWrites counts ledger writes by outcome: created, updated, rejected
	AttendanceWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hris",
		Subsystem: "attendance",
		Name:      "writes_total",
		Help:      "Attendance upserts by outcome.",
	}, []string{"outcome"})

	// UpsertRetries counts retries after a same-key write conflict
	UpsertRetries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hris",
		Subsystem: "attendance",
		Name:      "upsert_retries_total",
		Help:      "Upserts retried after a duplicate key conflict.",
	})

	// ReportsGenerated counts aggregated reports by format: json, csv, xlsx
	ReportsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hris",
		Subsystem: "report",
		Name:      "generated_total",
		Help:      "Attendance reports generated by format.",
	}, []string{"format"})
)

const (
	OutcomeCreated  = "created"
	OutcomeUpdated  = "updated"
	OutcomeRejected = "rejected"
)
