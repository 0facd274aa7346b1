// Copyright 2024 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package metrics

import (
	"fmt"
	"io"
	"sort"
	"time"
)

// namedMetric pairs a registered metric with its name, so a registry's
// contents can be sorted before being written out.
type namedMetric struct {
	name   string
	metric interface{}
}

type namedMetricSlice []namedMetric

func (s namedMetricSlice) Len() int      { return len(s) }
func (s namedMetricSlice) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s namedMetricSlice) Less(i, j int) bool {
	return s[i].name < s[j].name
}

// WriteOnce writes a single snapshot of every metric in r to w, in
// alphabetical order by name, as a human-readable report; Write calls it on
// every tick of its own loop.
func WriteOnce(r Registry, w io.Writer) {
	var sorted namedMetricSlice
	r.Each(func(name string, i interface{}) {
		sorted = append(sorted, namedMetric{name, i})
	})
	sort.Sort(sorted)
	for _, m := range sorted {
		switch metric := m.metric.(type) {
		case Counter:
			fmt.Fprintf(w, "counter %s\n  count: %9d\n", m.name, metric.Count())
		case CounterFloat64:
			fmt.Fprintf(w, "counter %s\n  count: %f\n", m.name, metric.Count())
		case Gauge:
			fmt.Fprintf(w, "gauge %s\n  value: %9d\n", m.name, metric.Value())
		case GaugeFloat64:
			fmt.Fprintf(w, "gauge %s\n  value: %f\n", m.name, metric.Value())
		case GaugeInfo:
			fmt.Fprintf(w, "gauge %s\n  value: %s\n", m.name, metric.Value().String())
		case Meter:
			snap := metric.Snapshot()
			fmt.Fprintf(w, "meter %s\n  count:    %9d\n  mean rate: %12.2f\n", m.name, snap.Count(), snap.RateMean())
		case Timer:
			snap := metric.Snapshot()
			fmt.Fprintf(w, "timer %s\n  count:    %9d\n  min:      %12s\n  max:      %12s\n  mean:     %12.2f\n",
				m.name, snap.Count(), time.Duration(snap.Min()), time.Duration(snap.Max()), snap.Mean())
		}
	}
}

// Write runs WriteOnce on a fixed interval until stopped, the way the engine's
// stats component periodically reports to logs.
func Write(r Registry, d time.Duration, w io.Writer, stop <-chan struct{}) {
	ticker := time.NewTicker(d)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			WriteOnce(r, w)
		case <-stop:
			return
		}
	}
}
