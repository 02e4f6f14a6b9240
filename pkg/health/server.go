package health

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zainarain279/monad5/pkg/chainclient"
	"github.com/zainarain279/monad5/pkg/circuitbreaker"
)

// Server represents a health check HTTP server
type Server struct {
	port          string
	client        *chainclient.Client
	breakers      *circuitbreaker.Registry
	metricsAPIKey string
}

// NewServer creates a new health check server
func NewServer(port string, client *chainclient.Client, breakers *circuitbreaker.Registry) *Server {
	return &Server{
		port:          port,
		client:        client,
		breakers:      breakers,
		metricsAPIKey: os.Getenv("METRICS_API_KEY"),
	}
}

// metricsAuthMiddleware is a middleware that checks for a valid API key
func (s *Server) metricsAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip auth if no API key is configured
		if s.metricsAPIKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Missing Authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
			return
		}

		if parts[1] != s.metricsAPIKey {
			http.Error(w, "Invalid API key", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Start starts the health check server
func (s *Server) Start() {
	// Health check endpoint
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Readiness check
	http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if s.client == nil || s.client.Client == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("Chain client not connected"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Ready"))
	})

	// Chain and circuit status endpoint
	http.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		status := map[string]interface{}{
			"rpc_url":   s.client.RPCURL,
			"chain_id":  s.client.ChainID.String(),
			"connected": s.client.Client != nil,
		}

		if s.client.Client != nil {
			if blockNumber, err := s.client.Client.BlockNumber(r.Context()); err == nil {
				status["latest_block"] = blockNumber
			}
		}

		circuits := make(map[string]string)
		for _, state := range s.breakers.States() {
			circuit := "closed"
			if state.Tripped {
				circuit = "open"
			}
			circuits[state.Name] = circuit
		}
		status["circuits"] = circuits

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status); err != nil {
			log.Printf("Error encoding status JSON: %v", err)
		}
	})

	// Circuit breaker admin control endpoint
	http.HandleFunc("/circuit/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		name := r.URL.Query().Get("protocol")
		if name == "" {
			s.breakers.ResetAll()
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("All circuit breakers reset"))
			return
		}

		s.breakers.Get(name).Reset()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Circuit breaker for " + name + " reset"))
	})

	// Expose Prometheus metrics with API key authentication
	http.Handle("/metrics", s.metricsAuthMiddleware(promhttp.Handler()))

	log.Printf("Starting health and metrics server on port %s", s.port)
	if err := http.ListenAndServe(":"+s.port, nil); err != nil {
		log.Printf("Health server error: %v", err)
	}
}
