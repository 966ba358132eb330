package router

import (
	"net/http"

	"pet-passport/internal/adapters/storage/memory"
	"pet-passport/internal/domain/passport"
	"pet-passport/internal/middleware"
	"pet-passport/internal/platform/logger"
	"pet-passport/internal/platform/metrics"
	"pet-passport/internal/ports/auth"

	_ "pet-passport/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene nil, ledger in-memory.
	Ledger passport.Ledger

	// Capacidad, políticas, límites. Metrics/Logger se completan acá si vienen vacíos.
	Passport passport.Options

	Logger logger.Logger

	// Opcional: registry para /metrics. Nil => uno nuevo por router.
	Registry *prometheus.Registry
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}

	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))
	r.Use(middleware.RequestLog(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	ledger := opts.Ledger
	if ledger == nil {
		ledger = memory.NewPassportLedger()
	}

	svcOpts := opts.Passport
	if svcOpts.Metrics == nil {
		svcOpts.Metrics = metrics.New(reg)
	}
	if svcOpts.Logger == nil {
		svcOpts.Logger = log
	}

	passport.RegisterRoutes(r, passport.NewService(ledger, svcOpts))

	return r
}
