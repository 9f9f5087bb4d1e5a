// Package metrics содержит счётчики Prometheus для квотных отказов
// мастера генерации и отбракованных отправок контактной формы.
// Счётчики отдаются наружу через /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// GenerationRejections считает отказы мастера генерации по причинам:
// no_subscription, no_credits, regen_limit, daily_limit, upstream.
var GenerationRejections = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "backoffice_generation_rejections_total",
	Help: "Rejected generation or publish attempts by reason.",
}, []string{"reason"})

// ContactDrops считает отбракованные отправки контактной формы по причинам:
// honeypot, too_fast, denylist, rate_limit.
var ContactDrops = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "backoffice_contact_drops_total",
	Help: "Dropped contact form submissions by reason.",
}, []string{"reason"})
