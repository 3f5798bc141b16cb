package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// IdentifiersAllocated identifiers handed out by kind (card_id, invoice_number)
	IdentifiersAllocated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "invoicing_identifiers_allocated_total",
		Help: "Identifiers allocated from the counter record by kind.",
	}, []string{"kind"})

	// TxRetries serializable transactions re-run after a conflict
	TxRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "invoicing_tx_retries_total",
		Help: "Serializable transactions retried after a serialization conflict.",
	})

	// ExportsGenerated export files produced by format
	ExportsGenerated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "invoicing_exports_generated_total",
		Help: "Export files generated by format.",
	}, []string{"format"})

	// InvoiceLinesWritten invoice lines computed and stored by operation (add, edit)
	InvoiceLinesWritten = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "invoicing_invoice_lines_written_total",
		Help: "Invoice lines computed and stored by operation.",
	}, []string{"op"})
)

// Register registers all collectors with registerer, the default registerer when nil.
func Register(registerer prometheus.Registerer) error {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{
		IdentifiersAllocated,
		TxRetries,
		ExportsGenerated,
		InvoiceLinesWritten,
	} {
		if err := registerer.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}
