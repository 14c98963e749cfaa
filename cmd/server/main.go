package main

import (
	"log"
	"net/http"

	"albastini/internal/config"
	"albastini/internal/database"
	"albastini/internal/server"
)

func main() {
	log.Println("Starting Albastini deck server...")

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.New(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	hub := server.NewHub(db)
	go hub.Run()

	server.AllowOrigins(cfg.OriginAllowed)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		server.ServeWs(hub, w, r)
	})

	fs := http.FileServer(http.Dir(cfg.StaticDir))
	mux.Handle("/", fs)

	server.HandleRoutes(mux, db)

	log.Printf("Listening on %s", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, mux))
}
