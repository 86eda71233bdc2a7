// Package metrics exports the clock face state to Prometheus.
package metrics

import (
	"runtime"
	"strconv"

	"tzface/faceos/zones"
	"tzface/internal/buildinfo"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tzface"

// Every per-zone series carries the panel index, so equal names never share
// a series.
var zoneLabels = []string{"panel", "zone"}

// Face implements the face task's Observer and records ticks, redraws and
// the current day/night state of every zone.
type Face struct {
	ticks    prometheus.Counter
	lastTick prometheus.Gauge
	redraws  *prometheus.CounterVec
	night    *prometheus.GaugeVec
	offset   *prometheus.GaugeVec
}

// New creates the face metrics and registers them with reg.
func New(reg prometheus.Registerer) *Face {
	f := &Face{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "minute_ticks_total",
			Help:      "Minute ticks handled by the face.",
		}),
		lastTick: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_tick_timestamp_seconds",
			Help:      "Unix time of the last minute tick.",
		}),
		redraws: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "panel_redraws_total",
			Help:      "Panel redraws per zone.",
		}, zoneLabels),
		night: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "zone_night",
			Help:      "1 when the zone is currently shaded as night.",
		}, zoneLabels),
		offset: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "zone_utc_offset_minutes",
			Help:      "Fixed UTC offset of each zone.",
		}, zoneLabels),
	}

	buildInfo := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "build_info",
		Help:      "Build version information.",
	}, []string{"version", "commit", "go_version"})
	buildInfo.With(prometheus.Labels{
		"version":    buildinfo.Version,
		"commit":     buildinfo.Commit,
		"go_version": runtime.Version(),
	}).Set(1)

	reg.MustRegister(f.ticks, f.lastTick, f.redraws, f.night, f.offset, buildInfo)
	return f
}

func (f *Face) MinuteTick(table zones.Table) {
	f.ticks.Inc()
	f.lastTick.SetToCurrentTime()
	for i, z := range table {
		labels := zoneLabelValues(i, z)
		f.offset.WithLabelValues(labels...).Set(float64(z.OffsetMinutes))
		if z.Night {
			f.night.WithLabelValues(labels...).Set(1)
		} else {
			f.night.WithLabelValues(labels...).Set(0)
		}
	}
}

func (f *Face) PanelRedrawn(index int, z zones.Zone) {
	f.redraws.WithLabelValues(zoneLabelValues(index, z)...).Inc()
}

// zoneLabelValues returns the panel and zone label values; an unnamed zone
// is called "zone<panel>".
func zoneLabelValues(index int, z zones.Zone) []string {
	panel := strconv.Itoa(index)
	name := z.Name
	if name == "" {
		name = "zone" + panel
	}
	return []string{panel, name}
}
