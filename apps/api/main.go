package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	cataloghandler "github.com/rlst8/rlst8/domains/catalog/be/handler"
	dashboardhandler "github.com/rlst8/rlst8/domains/dashboard/be/handler"
	dashboardservice "github.com/rlst8/rlst8/domains/dashboard/be/service"
	maintenancehandler "github.com/rlst8/rlst8/domains/maintenance/be/handler"
	maintenanceservice "github.com/rlst8/rlst8/domains/maintenance/be/service"
	paymentshandler "github.com/rlst8/rlst8/domains/payments/be/handler"
	paymentsservice "github.com/rlst8/rlst8/domains/payments/be/service"
	propertieshandler "github.com/rlst8/rlst8/domains/properties/be/handler"
	propertiesservice "github.com/rlst8/rlst8/domains/properties/be/service"
	registrationhandler "github.com/rlst8/rlst8/domains/registration/be/handler"
	registrationservice "github.com/rlst8/rlst8/domains/registration/be/service"
	searchhandler "github.com/rlst8/rlst8/domains/search/be/handler"
	searchservice "github.com/rlst8/rlst8/domains/search/be/service"
	securityhandler "github.com/rlst8/rlst8/domains/security/be/handler"
	securityservice "github.com/rlst8/rlst8/domains/security/be/service"
	tenancieshandler "github.com/rlst8/rlst8/domains/tenancies/be/handler"
	tenanciesservice "github.com/rlst8/rlst8/domains/tenancies/be/service"
	usershandler "github.com/rlst8/rlst8/domains/users/be/handler"
	usersservice "github.com/rlst8/rlst8/domains/users/be/service"
	platformlogging "github.com/rlst8/rlst8/platform/go/logging"
	platformmiddleware "github.com/rlst8/rlst8/platform/go/middleware"
	"github.com/rlst8/rlst8/platform/go/persistence"
)

type config struct {
	Port            string        `env:"PORT" envDefault:"3000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`
	DatabaseURL     string        `env:"DATABASE_URL,required"`
	AuthProvider    string        `env:"AUTH_PROVIDER" envDefault:"firebase"`
	// AuthWebAPIKey is the public browser key used for password sign-in.
	AuthWebAPIKey string `env:"AUTH_WEB_API_KEY"`
	// AuthCredentialsFile points at the admin service account JSON; empty
	// uses application default credentials.
	AuthCredentialsFile string `env:"AUTH_CREDENTIALS_FILE"`
	// AuthSignInEndpoint overrides the Identity Toolkit URL (auth emulator).
	AuthSignInEndpoint string        `env:"AUTH_SIGNIN_ENDPOINT"`
	ScopeCacheTTL      time.Duration `env:"SCOPE_CACHE_TTL" envDefault:"1m"`
	// DashboardPartialMode is zero|warn; warn names failed sections in the
	// summary payload.
	DashboardPartialMode string `env:"DASHBOARD_PARTIAL_MODE" envDefault:"zero"`
}

func main() {
	ctx := context.Background()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := platformlogging.NewLogger(platformlogging.Config{
		Component: "api-server",
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
	})
	if err != nil {
		log.Fatalf("init zap logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: cfg.DatabaseURL})
	if err != nil {
		logger.Fatal("init postgres pool", zap.Error(err))
	}
	defer persistence.ClosePool(pool)

	orgStore, err := persistence.NewOrgStore(pool)
	if err != nil {
		logger.Fatal("init org store", zap.Error(err))
	}
	userStore, err := persistence.NewUserStore(pool)
	if err != nil {
		logger.Fatal("init user store", zap.Error(err))
	}
	propertyStore, err := persistence.NewPropertyStore(pool)
	if err != nil {
		logger.Fatal("init property store", zap.Error(err))
	}
	tenancyStore, err := persistence.NewTenancyStore(pool)
	if err != nil {
		logger.Fatal("init tenancy store", zap.Error(err))
	}
	paymentStore, err := persistence.NewPaymentStore(pool)
	if err != nil {
		logger.Fatal("init payment store", zap.Error(err))
	}
	maintenanceStore, err := persistence.NewMaintenanceStore(pool)
	if err != nil {
		logger.Fatal("init maintenance store", zap.Error(err))
	}
	visitorStore, err := persistence.NewVisitorStore(pool)
	if err != nil {
		logger.Fatal("init visitor store", zap.Error(err))
	}
	parkingStore, err := persistence.NewParkingStore(pool)
	if err != nil {
		logger.Fatal("init parking store", zap.Error(err))
	}

	authProvider, authMiddleware := buildAuthProvider(ctx, cfg, logger)

	usersService := usersservice.New(userStore)
	usersHTTPHandler := usershandler.New(usersService, logger)

	registrationService := registrationservice.New(authProvider, orgStore, userStore, logger)
	registrationHTTPHandler := registrationhandler.New(registrationService, logger)

	dashboardOpts := []dashboardservice.Option{}
	if cfg.DashboardPartialMode == "warn" {
		dashboardOpts = append(dashboardOpts, dashboardservice.WithPartialPolicy(dashboardservice.PartialWarn))
	}
	dashboardService := dashboardservice.New(dashboardservice.Stores{
		Properties:  propertyStore,
		Tenancies:   tenancyStore,
		Payments:    paymentStore,
		Maintenance: maintenanceStore,
	}, logger, dashboardOpts...)
	dashboardHTTPHandler := dashboardhandler.New(dashboardService, logger)

	searchService := searchservice.New(searchservice.Stores{
		Properties:  propertyStore,
		Occupants:   userStore,
		Payments:    paymentStore,
		Maintenance: maintenanceStore,
	}, logger)
	searchHTTPHandler := searchhandler.New(searchService, logger)

	securityService := securityservice.New(visitorStore, parkingStore)
	securityHTTPHandler := securityhandler.New(securityService, logger)

	propertiesService := propertiesservice.New(propertyStore)
	propertiesHTTPHandler := propertieshandler.New(propertiesService, logger)

	tenanciesService := tenanciesservice.New(tenancyStore)
	tenanciesHTTPHandler := tenancieshandler.New(tenanciesService, logger)

	paymentsService := paymentsservice.New(paymentStore)
	paymentsHTTPHandler := paymentshandler.New(paymentsService, logger)

	maintenanceService := maintenanceservice.New(maintenanceStore)
	maintenanceHTTPHandler := maintenancehandler.New(maintenanceService, logger)

	catalogHTTPHandler := cataloghandler.New()

	rootRouter := chi.NewRouter()

	rootRouter.Use(
		chimw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		chimw.Timeout(cfg.RequestTimeout),
		platformmiddleware.DefaultCORS(),
	)

	rootRouter.Use(platformlogging.RequestLogger(logger))

	rootRouter.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rootRouter.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	// Public auth endpoints; no token required.
	rootRouter.Route("/api/auth", registrationHTTPHandler.Routes)

	apiRouter := chi.NewRouter()
	apiRouter.Use(authMiddleware)
	apiRouter.Use(platformmiddleware.WithScope(usersService, platformmiddleware.ScopeConfig{
		CacheTTL: cfg.ScopeCacheTTL,
	}))

	apiRouter.Route("/users", usersHTTPHandler.Routes)
	apiRouter.Route("/dashboard", dashboardHTTPHandler.Routes)
	apiRouter.Route("/search", searchHTTPHandler.Routes)
	apiRouter.Route("/properties", propertiesHTTPHandler.Routes)
	apiRouter.Route("/tenancies", tenanciesHTTPHandler.Routes)
	apiRouter.Route("/payments", paymentsHTTPHandler.Routes)
	apiRouter.Route("/maintenance", maintenanceHTTPHandler.Routes)
	apiRouter.Route("/catalogs", catalogHTTPHandler.Routes)
	apiRouter.Group(func(r chi.Router) {
		r.Use(platformmiddleware.RequireRole(
			persistence.RoleCompanyAdmin,
			persistence.RoleSecurityGuard,
			persistence.RoleCaretaker,
		))
		r.Route("/security", securityHTTPHandler.Routes)
	})

	rootRouter.Mount("/api/v1", apiRouter)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      rootRouter,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	go func() {
		logger.Info("starting api server", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server listen failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
