// Command produce-dashboard serves a read-only websocket feed of a running
// produce session for operator/spectator tooling, grounded on
// LuKev-tm_server's cmd/server: a gorilla/mux router with a /ws endpoint
// upgraded by the hub's ServeWs, plus a /health check.
package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/harukaze/producecore/internal/telemetry"
)

func main() {
	addr := flag.String("addr", ":8090", "listen address")
	flag.Parse()

	hub := telemetry.NewHub()
	go hub.Run()

	router := mux.NewRouter()

	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		telemetry.ServeWs(hub, w, r)
	})

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	router.Use(corsMiddleware)

	log.Printf("produce-dashboard listening on %s", *addr)
	if err := http.ListenAndServe(*addr, router); err != nil {
		log.Fatal("ListenAndServe: ", err)
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
