package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	signinsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "discipline_signins_total",
		Help: "Signin attempts by outcome.",
	}, []string{"outcome"})

	complaintsFiledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "discipline_complaints_filed_total",
		Help: "Complaints successfully recorded.",
	})
)
