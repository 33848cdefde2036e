package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "egov_orders_started_total",
		Help: "Orders created in IN_PROGRESS.",
	})
	OrdersFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "egov_orders_finished_total",
		Help: "Orders moved to a terminal status.",
	}, []string{"status"})
	ShiftsOpened = promauto.NewCounter(prometheus.CounterOpts{
		Name: "egov_shifts_opened_total",
		Help: "Shifts opened by PIN login.",
	})
	ShiftsClosed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "egov_shifts_closed_total",
		Help: "Shifts closed by employees.",
	})
	ReportDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "egov_report_deliveries_total",
		Help: "Report messages handed to the notifier, by result.",
	}, []string{"result"})
)
