package locations

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/districts", DistrictsHandler)
	r.Get("/districts/{districtID}/taluks", TaluksHandler)
	r.Get("/taluks/{talukID}/villages", VillagesHandler)
	r.Get("/villages/{villageID}/wards", WardsHandler)
	r.Get("/versions", VersionsHandler)

	return r
}
