package services

import "github.com/prometheus/client_golang/prometheus"

var (
	mealsLogged = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nutritrack_meals_logged_total",
		Help: "Meals successfully appended to the history.",
	})

	mealsDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nutritrack_meals_deleted_total",
		Help: "Meal delete requests that reached storage.",
	})

	// outcome: ok|empty|error|unavailable
	lookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nutritrack_nutrition_lookups_total",
		Help: "Nutrition lookups by outcome.",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(mealsLogged, mealsDeleted, lookups)
}
