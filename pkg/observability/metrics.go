// Package observability exposes Prometheus counters for import runs.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RowsParsed tracks data rows read from source files, labeled by
	// pipeline ("bills" or "bank").
	RowsParsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_import_rows_parsed_total",
			Help: "Data rows read from import source files",
		},
		[]string{"pipeline"},
	)

	// RowsSkipped tracks row-local skips (blank rows, subtotals, non-credit
	// directions, unusable amounts).
	RowsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_import_rows_skipped_total",
			Help: "Rows dropped by row-local skip rules",
		},
		[]string{"pipeline"},
	)

	// BillsInserted counts new bill rows created by upserts.
	BillsInserted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_import_bills_inserted_total",
		Help: "Bill rows inserted into the ledger",
	})

	// BillsUpdated counts existing bill rows rewritten in place.
	BillsUpdated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_import_bills_updated_total",
		Help: "Bill rows updated in place by re-imports",
	})

	// TxnsAppended counts bank transactions appended after dedup.
	TxnsAppended = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_import_txns_appended_total",
		Help: "Bank transactions appended to the ledger",
	})

	// RunFailures counts import runs aborted by structural or column
	// resolution failures.
	RunFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_import_run_failures_total",
			Help: "Import runs aborted before any write",
		},
		[]string{"pipeline"},
	)
)
