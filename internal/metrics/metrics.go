package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes counters for room and gameplay activity on /metrics.
type Metrics struct {
	RoomsCreated     prometheus.Counter
	RoomsReclaimed   prometheus.Counter
	GamesStarted     prometheus.Counter
	AnswersAccepted  prometheus.Counter
	ActiveRooms      prometheus.Gauge
	ConnectedClients prometheus.Gauge
}

// New registers gameplay metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers gameplay metrics on the given registerer.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RoomsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "trivia_rooms_created_total",
			Help: "Rooms created since process start.",
		}),
		RoomsReclaimed: factory.NewCounter(prometheus.CounterOpts{
			Name: "trivia_rooms_reclaimed_total",
			Help: "Empty rooms removed from the registry.",
		}),
		GamesStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "trivia_games_started_total",
			Help: "Games started across all rooms.",
		}),
		AnswersAccepted: factory.NewCounter(prometheus.CounterOpts{
			Name: "trivia_answers_accepted_total",
			Help: "Answers accepted (one per player per question).",
		}),
		ActiveRooms: factory.NewGauge(prometheus.GaugeOpts{
			Name: "trivia_active_rooms",
			Help: "Rooms currently registered.",
		}),
		ConnectedClients: factory.NewGauge(prometheus.GaugeOpts{
			Name: "trivia_connected_clients",
			Help: "WebSocket connections currently open.",
		}),
	}
}
