package camera

import "github.com/prometheus/client_golang/prometheus"

var (
	opensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scancam",
			Subsystem: "camera",
			Name:      "opens_total",
			Help:      "Camera open attempts by result",
		},
		[]string{"result"},
	)

	paramFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scancam",
			Subsystem: "camera",
			Name:      "param_fallbacks_total",
			Help:      "Parameter fallbacks by stage (safe_mode, unconfigured)",
		},
		[]string{"stage"},
	)

	torchSwitchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scancam",
			Subsystem: "camera",
			Name:      "torch_switches_total",
			Help:      "Torch switches by target state",
		},
		[]string{"state"},
	)

	framesDeliveredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "scancam",
			Subsystem: "camera",
			Name:      "frames_delivered_total",
			Help:      "One-shot preview frames handed to a consumer",
		},
	)

	stateGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "scancam",
			Subsystem: "camera",
			Name:      "state",
			Help:      "1 for the current lifecycle state, 0 otherwise",
		},
		[]string{"state"},
	)
)

func init() {
	prometheus.MustRegister(opensTotal, paramFallbacksTotal, torchSwitchesTotal, framesDeliveredTotal, stateGauge)
}

func setStateGauge(s State) {
	for _, st := range allStates {
		v := 0.0
		if st == s {
			v = 1
		}
		stateGauge.WithLabelValues(string(st)).Set(v)
	}
}
