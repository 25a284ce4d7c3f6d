// SPDX-License-Identifier: MIT

package assemble

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the assembly counters. A nil *Metrics records nothing.
type Metrics struct {
	elements  prometheus.Counter
	records   prometheus.Counter
	overflows prometheus.Counter
}

// NewMetrics creates the assembly counters and registers them with reg.
// Counters already registered by an earlier call are reused, so several
// assemblers may share one registry.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{}
	var err error
	if m.elements, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quadsparse_elements_assembled_total",
		Help: "Elements evaluated by Integrate and Eval.",
	})); err != nil {
		return nil, assembleErrorf("NewMetrics", err)
	}
	if m.records, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quadsparse_records_written_total",
		Help: "Sparse records written by Integrate.",
	})); err != nil {
		return nil, assembleErrorf("NewMetrics", err)
	}
	if m.overflows, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quadsparse_plan_overflows_total",
		Help: "Assembly calls rejected by offset overflow.",
	})); err != nil {
		return nil, assembleErrorf("NewMetrics", err)
	}

	return m, nil
}

func register(reg prometheus.Registerer, c prometheus.Counter) (prometheus.Counter, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
		}
		return nil, err
	}

	return c, nil
}

func (m *Metrics) elementDone(records int) {
	if m == nil {
		return
	}
	m.elements.Inc()
	m.records.Add(float64(records))
}

func (m *Metrics) overflow() {
	if m == nil {
		return
	}
	m.overflows.Inc()
}
