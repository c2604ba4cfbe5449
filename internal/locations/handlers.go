package locations

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/janmitra/locmaster/internal/db"
)

// The locations API is strictly read-only: master data is created by the
// import executables and locked afterwards; the application never mutates it
// through HTTP.

func DistrictsHandler(w http.ResponseWriter, r *http.Request) {
	var districts []District
	if err := db.DB.Order("name").Find(&districts).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, districts)
}

func TaluksHandler(w http.ResponseWriter, r *http.Request) {
	districtID, ok := parseID(w, chi.URLParam(r, "districtID"))
	if !ok {
		return
	}

	var taluks []Taluk
	if err := db.DB.Where("district_id = ?", districtID).Order("name").Find(&taluks).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, taluks)
}

func VillagesHandler(w http.ResponseWriter, r *http.Request) {
	talukID, ok := parseID(w, chi.URLParam(r, "talukID"))
	if !ok {
		return
	}

	var villages []Village
	if err := db.DB.Where("taluk_id = ?", talukID).Order("name").Find(&villages).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, villages)
}

func WardsHandler(w http.ResponseWriter, r *http.Request) {
	villageID, ok := parseID(w, chi.URLParam(r, "villageID"))
	if !ok {
		return
	}

	var wards []Ward
	if err := db.DB.Where("village_id = ?", villageID).Order("length(ward_number), ward_number").Find(&wards).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, wards)
}

func VersionsHandler(w http.ResponseWriter, r *http.Request) {
	var versions []LocationDatasetVersion
	if err := db.DB.Order("imported_at DESC").Find(&versions).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, versions)
}

func parseID(w http.ResponseWriter, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
