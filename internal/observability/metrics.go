package observability

import "github.com/prometheus/client_golang/prometheus"

const namespace = "recipes"

var (
	// FavoriteChanges counts favorite adds and removes by op ("add", "remove").
	FavoriteChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "favorites_changes_total",
			Help:      "Favorites added or removed.",
		},
		[]string{"op"},
	)

	// RatingRecomputes counts average-rating recomputations.
	RatingRecomputes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rating_recomputes_total",
			Help:      "Recipe average rating recomputations.",
		},
	)

	// CommentsDeleted counts removed comments, cascaded replies included.
	CommentsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comments_deleted_total",
			Help:      "Comments deleted, including cascaded replies.",
		},
	)
)

func init() {
	prometheus.MustRegister(FavoriteChanges, RatingRecomputes, CommentsDeleted)
}
