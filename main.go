package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/janmitra/locmaster/internal/db"
	"github.com/janmitra/locmaster/internal/locations"
	"github.com/janmitra/locmaster/internal/middleware"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

func main() {
	_ = godotenv.Load(".env.local")
	db.Connect()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}

	locations.Init()

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Use(middleware.RequestLogger)
	r.Get("/", RootHandler)

	r.Mount("/locations", locations.SetupRoutes())

	fmt.Printf("Server listening on port :%s...\n", port)

	http.ListenAndServe("0.0.0.0:"+port, r)
}
