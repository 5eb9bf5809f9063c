package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace prefixes every collector name.
const DefaultNamespace = "navsync"

// Save outcomes used as the "outcome" label.
const (
	OutcomeSuccess      = "success"
	OutcomeRejected     = "rejected"
	OutcomeNonceMissing = "nonce_missing"
	OutcomeError        = "error"
)

// Collectors records reconciliation and save activity.
type Collectors struct {
	ItemsCreated    prometheus.Counter
	Reconciliations *prometheus.CounterVec
	Saves           *prometheus.CounterVec
	SaveDuration    prometheus.Histogram
	Commands        *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec
}

// New registers the collectors on reg. A nil reg yields unregistered
// collectors, which still count but are not exported.
func New(reg prometheus.Registerer, namespace string) *Collectors {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		namespace = DefaultNamespace
	}
	factory := promauto.With(reg)

	return &Collectors{
		ItemsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "menu_items_created_total",
			Help:      "Placeholder menu items created during reconciliation",
		}),
		Reconciliations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reconciliations_total",
				Help:      "Reconciliation passes by result",
			},
			[]string{"result"},
		),
		Saves: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "saves_total",
				Help:      "Changeset save attempts by outcome",
			},
			[]string{"outcome"},
		),
		SaveDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "save_duration_seconds",
			Help:      "Time spent fetching the nonce and submitting the changeset",
			Buckets:   prometheus.DefBuckets,
		}),
		Commands: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commands_total",
				Help:      "Navigation command runs by command and status",
			},
			[]string{"command", "status"},
		),
		CommandDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "command_duration_seconds",
				Help:      "Navigation command run time",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"command"},
		),
	}
}

// ItemsCreatedAdd counts created items.
func (c *Collectors) ItemsCreatedAdd(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.ItemsCreated.Add(float64(n))
}

// ReconcileCompleted counts a reconciliation pass.
func (c *Collectors) ReconcileCompleted(err error) {
	if c == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.Reconciliations.WithLabelValues(result).Inc()
}

// SaveCompleted counts a save attempt and observes its duration.
func (c *Collectors) SaveCompleted(outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.Saves.WithLabelValues(outcome).Inc()
	c.SaveDuration.Observe(elapsed.Seconds())
}

// CommandCompleted counts a command run and observes its duration.
func (c *Collectors) CommandCompleted(command, status string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.Commands.WithLabelValues(command, status).Inc()
	c.CommandDuration.WithLabelValues(command).Observe(elapsed.Seconds())
}
