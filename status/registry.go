package status

import (
	"fmt"
	"strconv"
	"sync/atomic"
)

// Registry holds the input statistics
// The input loop caches pointers at construction and writes to them directly;
// monitors read from any goroutine
type Registry struct {
	Flags    *Set[atomic.Bool]
	Counters *Set[atomic.Int64]
	Gauges   *Set[Gauge]
	Labels   *Set[Label]
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		Flags:    newSet[atomic.Bool](),
		Counters: newSet[atomic.Int64](),
		Gauges:   newSet[Gauge](),
		Labels:   newSet[Label](),
	}
}

// Len returns the number of metrics of every kind
func (r *Registry) Len() int {
	return r.Flags.Len() + r.Counters.Len() + r.Gauges.Len() + r.Labels.Len()
}

// Lines renders every metric as "name=value", grouped by kind and sorted by name
// Gauges also show their peak
func (r *Registry) Lines() []string {
	lines := make([]string, 0, r.Len())
	r.Flags.Each(func(name string, v *atomic.Bool) {
		lines = append(lines, name+"="+strconv.FormatBool(v.Load()))
	})
	r.Counters.Each(func(name string, v *atomic.Int64) {
		lines = append(lines, name+"="+strconv.FormatInt(v.Load(), 10))
	})
	r.Gauges.Each(func(name string, v *Gauge) {
		lines = append(lines, fmt.Sprintf("%s=%.3f (max %.3f)", name, v.Load(), v.Peak()))
	})
	r.Labels.Each(func(name string, v *Label) {
		lines = append(lines, name+"="+v.Load())
	})
	return lines
}
