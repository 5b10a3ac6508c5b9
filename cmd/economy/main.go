package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rbrabson/economy/pkg/config"
	"github.com/rbrabson/economy/pkg/database"
	"github.com/rbrabson/economy/pkg/economy"
	"github.com/rbrabson/economy/pkg/store"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.ConfigureLogger(); err != nil {
		log.Fatal(err)
	}

	s, err := store.NewStore(cfg.StoreOptions())
	if err != nil {
		log.Fatal(err)
	}
	db := database.Open(s)
	defer db.Close()

	// Fail at startup rather than run against storage that cannot be read.
	if err := db.CheckStorage(); err != nil {
		log.Fatal(err)
	}
	if cfg.CheckStorage {
		db.StartWatchdog(cfg.CheckInterval)
	}

	if cfg.MetricsAddr != "" {
		serveMetrics(cfg.MetricsAddr)
	}

	econ := economy.New(db, cfg.Defaults)
	defer econ.Close()
	go logEvents(econ)

	log.WithFields(log.Fields{"store": s.Name()}).Info("Economy started")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	log.Info("Press Ctrl+C to exit")
	select {
	case <-sc:
	case err := <-db.Errors():
		log.Errorf("Storage is no longer usable, error=%s", err.Error())
	}
	log.Info("Shutting down")
}

// logEvents logs every economy event until the economy is closed.
func logEvents(econ *economy.Economy) {
	for event := range econ.Subscribe(64) {
		log.WithFields(log.Fields{"event": event.Name, "payload": event.Payload}).Info("economy event")
	}
}

// serveMetrics exposes the database metrics for Prometheus.
func serveMetrics(addr string) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	registry.MustRegister(database.Collectors()...)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Errorf("Metrics server stopped, error=%s", err.Error())
		}
	}()
}
