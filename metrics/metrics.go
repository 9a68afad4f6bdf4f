package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds the counters recorded by one cleaning run.
type Registry struct {
	reg                *prometheus.Registry
	Assembled          prometheus.Counter
	IdentityUnresolved prometheus.Counter
	FieldSource        *prometheus.CounterVec
	AssembleSec        prometheus.Histogram
	Inserted           prometheus.Counter
	Skipped            prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	assembled := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "propalyze_records_assembled_total",
		Help: "Records turned into canonical properties.",
	})
	unresolved := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "propalyze_identity_unresolved_total",
		Help: "Records for which no property_id could be derived.",
	})
	fieldSource := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "propalyze_field_source_total",
		Help: "Which fallback strategy supplied a derived field.",
	}, []string{"field", "strategy"})
	assembleSec := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "propalyze_assemble_duration_seconds",
		Help:    "Time spent assembling one input document.",
		Buckets: prometheus.DefBuckets,
	})
	inserted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "propalyze_properties_inserted_total",
		Help: "Properties written to the database.",
	})
	skipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "propalyze_properties_skipped_total",
		Help: "Properties not written because their identity is unresolved.",
	})

	r.MustRegister(assembled, unresolved, fieldSource, assembleSec, inserted, skipped)
	return &Registry{
		reg:                r,
		Assembled:          assembled,
		IdentityUnresolved: unresolved,
		FieldSource:        fieldSource,
		AssembleSec:        assembleSec,
		Inserted:           inserted,
		Skipped:            skipped,
	}
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// WriteTextfile dumps the current values in the node-exporter textfile format.
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
