package ui

import "github.com/bamsammich/fastdd/internal/stats"

// quietReporter counts bytes but produces no output.
type quietReporter struct {
	stats *stats.Collector
}

func (p *quietReporter) BytesTransferred(n int64) { p.stats.AddBytesCopied(n) }
func (p *quietReporter) Complete()                {}
func (p *quietReporter) Error()                   {}
func (p *quietReporter) Close()                   {}
