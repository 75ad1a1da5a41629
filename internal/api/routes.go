package api

import (
	"net/http"

	"github.com/fieldscope/fieldscope/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	routes.Register(
		mux,
		domain.Observations.Handler().Routes(),
		domain.Missions.Handler().Routes(),
		domain.Rewards.Handler().Routes(),
	)
}
