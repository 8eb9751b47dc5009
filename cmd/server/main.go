package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"monsterforge/internal/adapter/archive"
	natsbus "monsterforge/internal/adapter/bus/nats"
	staticcatalog "monsterforge/internal/adapter/catalog/static"
	httpadapter "monsterforge/internal/adapter/http"
	metricsinmem "monsterforge/internal/adapter/metrics/inmemory"
	gormrepo "monsterforge/internal/adapter/repo/gorm"
	memrepo "monsterforge/internal/adapter/repo/memory"
	"monsterforge/internal/adapter/stream"
	"monsterforge/internal/app/auth"
	catalogapp "monsterforge/internal/app/catalog"
	"monsterforge/internal/app/intake"
	"monsterforge/internal/app/observe"
	"monsterforge/internal/app/ports"
	"monsterforge/internal/app/replay"
	"monsterforge/internal/app/status"
	"monsterforge/internal/app/tick"
	"monsterforge/internal/config"
	"monsterforge/internal/domain/forge"
	"monsterforge/internal/domain/world"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/google/uuid"
)

type repoSet struct {
	Entities    ports.EntityRepository
	Intents     ports.IntentRepository
	Events      ports.EventRepository
	Credentials ports.PlayerCredentialRepository
	Clock       ports.ZoneClockRepository
	TxManager   ports.TxManager
}

func main() {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	catalog, zoneDefs, err := staticcatalog.Load(cfg.DataDir)
	if err != nil {
		log.Fatalf("load catalog from %s: %v", cfg.DataDir, err)
	}

	engine := forge.NewEngine(forge.Config{
		Catalog: catalog,
		Zones:   zoneDefs,
		Seed:    cfg.Seed,
	})
	for _, zoneID := range cfg.Zones {
		engine.EnsureZone(zoneDefFor(zoneDefs, zoneID))
	}

	repos := mustBuildRepos(cfg)
	kpi := metricsinmem.NewRecorder()

	bus, err := natsbus.NewServer(natsbus.WithHost(cfg.NATSHost), natsbus.WithPort(cfg.NATSPort))
	if err != nil {
		log.Fatalf("build event bus: %v", err)
	}
	if err := bus.Start(); err != nil {
		log.Fatalf("start event bus: %v", err)
	}
	defer bus.Close()

	var archiver ports.SnapshotArchiver
	if cfg.SnapshotEveryTicks > 0 {
		store, err := archive.Open(cfg.SnapshotDir)
		if err != nil {
			log.Fatalf("open snapshot archive: %v", err)
		}
		defer store.Close()
		archiver = store
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	restoreDeps := tick.RestoreDeps{
		Archive:   archiver,
		Entities:  repos.Entities,
		Clock:     repos.Clock,
		TxManager: repos.TxManager,
	}
	for _, zoneID := range cfg.Zones {
		restored, err := tick.RestoreZone(ctx, zoneID, restoreDeps)
		if err != nil {
			log.Fatalf("restore zone %s: %v", zoneID, err)
		}
		if restored {
			log.Printf("zone %s restored from snapshot archive", zoneID)
		}
	}

	tickUC := tick.UseCase{
		Engine:    engine,
		Entities:  repos.Entities,
		Intents:   repos.Intents,
		Events:    repos.Events,
		Clock:     repos.Clock,
		TxManager: repos.TxManager,
		Metrics:   kpi,
		Now:       time.Now,
	}
	runner := &tick.Runner{
		Ticker:        tickUC,
		Zones:         cfg.Zones,
		Interval:      time.Duration(cfg.TickIntervalSeconds) * time.Second,
		Bus:           natsbus.NewPublisher(bus),
		Archive:       archiver,
		SnapshotEvery: int64(cfg.SnapshotEveryTicks),
	}
	go func() {
		if err := runner.Run(ctx); err != nil && err != context.Canceled {
			log.Printf("tick runner stopped: %v", err)
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/stream", stream.NewGateway(bus, nil))
	streamSrv := &http.Server{Addr: cfg.StreamAddr, Handler: mux}
	go func() {
		log.Printf("stream gateway listening on %s", cfg.StreamAddr)
		if err := streamSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("stream gateway: %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = streamSrv.Shutdown(shutdownCtx)
	}()

	h := httpadapter.Handler{
		RegisterUC: auth.RegisterUseCase{Credentials: repos.Credentials, TxManager: repos.TxManager, Now: time.Now},
		AuthUC:     auth.VerifyUseCase{Credentials: repos.Credentials},
		IntakeUC: intake.UseCase{
			Intents:   repos.Intents,
			TxManager: repos.TxManager,
			Metrics:   kpi,
			NewID:     uuid.NewString,
			Now:       time.Now,
		},
		ObserveUC: observe.UseCase{Entities: repos.Entities, Events: repos.Events, Clock: repos.Clock},
		StatusUC:  status.UseCase{Entities: repos.Entities, Intents: repos.Intents, Clock: repos.Clock, GameClock: engine.Clock()},
		ReplayUC:  replay.UseCase{Events: repos.Events, Archive: archiver},
		CatalogUC: catalogapp.UseCase{Catalog: catalog},
		Entities:  repos.Entities,
		KPI:       kpi,
	}

	s := server.Default(server.WithHostPorts(cfg.HTTPAddr))
	h.RegisterRoutes(s)

	log.Printf("monsterforge server listening on %s (zones: %s)", cfg.HTTPAddr, strings.Join(cfg.Zones, ", "))
	s.Spin()
}

// mustBuildRepos wires postgres when a DSN is configured and the pure
// in-memory store otherwise, so a bare `go run ./cmd/server` works.
func mustBuildRepos(cfg config.Config) repoSet {
	if cfg.DBDSN == "" {
		log.Println("no db dsn configured, running in-memory")
		store := memrepo.NewStore()
		return repoSet{
			Entities:    memrepo.NewEntityRepo(store),
			Intents:     memrepo.NewIntentRepo(store),
			Events:      memrepo.NewEventRepo(store),
			Credentials: memrepo.NewPlayerCredentialRepo(store),
			Clock:       memrepo.NewZoneClockRepo(store),
			TxManager:   memrepo.NewTxManager(store),
		}
	}

	db, err := gormrepo.OpenPostgres(cfg.DBDSN)
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	if err := gormrepo.ApplyMigrations(context.Background(), db, cfg.MigrationsDir); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}
	return repoSet{
		Entities:    gormrepo.NewEntityRepo(db),
		Intents:     gormrepo.NewIntentRepo(db),
		Events:      gormrepo.NewEventRepo(db),
		Credentials: gormrepo.NewPlayerCredentialRepo(db),
		Clock:       gormrepo.NewZoneClockRepo(db),
		TxManager:   gormrepo.NewTxManager(db),
	}
}

// zoneDefFor matches a configured zone id against the loaded
// definitions, falling back to the built-in default layout.
func zoneDefFor(defs []world.ZoneDef, zoneID string) world.ZoneDef {
	for _, def := range defs {
		if def.ID == zoneID {
			return def
		}
	}
	return world.DefaultZone(zoneID)
}

func resolveConfigPath() string {
	if path := strings.TrimSpace(os.Getenv("MONSTERFORGE_CONFIG")); path != "" {
		return path
	}
	if _, err := os.Stat("./server.yaml"); err == nil {
		return "./server.yaml"
	}
	return ""
}
