package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "experience_bottler"

// Bottling
var (
	BottlesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bottles_created_total",
			Help:      "Bottles taken from the result slot",
		},
		[]string{LabelMode},
	)

	ExperienceBottled = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "experience_bottled_total",
			Help:      "Experience points debited into bottles",
		},
	)

	BottlingCommits = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bottling_commits_total",
			Help:      "Bottling amounts committed by clients",
		},
	)
)

// Drinking
var (
	BottlesConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bottles_consumed_total",
			Help:      "Bottles drunk by players whose experience was credited",
		},
	)

	ExperienceRestored = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "experience_restored_total",
			Help:      "Experience points credited from bottles",
		},
	)
)

// Transport
var (
	PacketsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packets_handled_total",
			Help:      "Serverbound packets consumed, by packet and result",
		},
		[]string{LabelPacket, LabelResult},
	)
)

const (
	LabelMode   = "mode"
	LabelPacket = "packet"
	LabelResult = "result"

	ModeSurvival = "survival"
	ModeCreative = "creative"

	ResultOK    = "ok"
	ResultError = "error"
)
