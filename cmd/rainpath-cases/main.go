package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	commoncfg "rainpath-cases/common/config"
	"rainpath-cases/common/database"
	"rainpath-cases/common/logger"
	commonmqtt "rainpath-cases/common/mqtt"
	commonredis "rainpath-cases/common/redis"
	"rainpath-cases/internal/config"
	httpapi "rainpath-cases/internal/http"
	casemqtt "rainpath-cases/internal/mqtt"
	"rainpath-cases/internal/repository"
	"rainpath-cases/internal/service"
	"rainpath-cases/internal/store"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: "rainpath-cases",
	})
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, repo := openCasesRepo(ctx, cfg, log)
	if db != nil {
		defer database.Close(db)
	}

	var kv store.KV = store.NewMemoryKV()
	if cfg.Redis.Enabled {
		rc, err := commonredis.Connect(ctx, &cfg.Redis.RedisConfig)
		if err == nil {
			kv = store.NewRedisKV(rc)
			defer commonredis.Close(rc)
			log.Info("draft store: redis", zap.String("addr", cfg.Redis.Addr))
		} else {
			log.Warn("redis unreachable, drafts kept in memory", zap.Error(err))
		}
	}

	var events service.CaseEventNotifier
	if cfg.MQTT.Enabled {
		mc, err := commonmqtt.NewClient(&cfg.MQTT.MQTTConfig)
		if err != nil {
			log.Warn("mqtt unavailable, case events disabled", zap.Error(err))
		} else {
			defer mc.Disconnect()
			events = casemqtt.NewCaseEventPublisher(mc, cfg.MQTT.TopicPrefix, mc.QoS(), log)
			log.Info("case events enabled", zap.String("broker", cfg.MQTT.Broker), zap.String("prefix", cfg.MQTT.TopicPrefix))
		}
	}

	cases := service.NewCaseService(repo, events, log)
	drafts := service.NewDraftService(kv, cfg.Drafts.TTL, log)

	var metrics *httpapi.Metrics
	if cfg.Metrics.Enabled {
		metrics = httpapi.NewMetrics()
	}

	router := httpapi.NewRouter(log, metrics)
	router.RegisterCaseRoutes(httpapi.NewCasesHandler(cases, drafts, metrics, log))

	var checks []httpapi.HealthCheck
	if db != nil {
		checks = append(checks, httpapi.HealthCheck{Name: "database", Check: db.PingContext})
	}
	router.RegisterHealthRoutes(checks...)
	if metrics != nil {
		router.RegisterMetricsRoute()
	}

	srv := service.NewServer(cfg.HTTP.Addr, router, log)
	log.Info("rainpath-cases listening", zap.String("addr", srv.Addr()), zap.String("db_driver", cfg.Database.Driver))
	if err := srv.Run(ctx); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		os.Exit(1)
	}
	log.Info("rainpath-cases stopped")
}

// openCasesRepo falls back to the in-memory repository when the configured database cannot be used.
func openCasesRepo(ctx context.Context, cfg *config.Config, log *zap.Logger) (*sql.DB, repository.CasesRepository) {
	var (
		db  *sql.DB
		err error
	)
	switch cfg.Database.Driver {
	case commoncfg.DriverPostgres:
		db, err = database.NewPostgresDB(ctx, &cfg.Database)
	case commoncfg.DriverSQLite:
		db, err = database.NewSQLiteDB(cfg.Database.SQLitePath)
	case commoncfg.DriverMemory:
		log.Info("case store: memory")
		return nil, repository.NewMemoryCasesRepo()
	default:
		log.Warn("unknown DB_DRIVER, using memory", zap.String("driver", cfg.Database.Driver))
		return nil, repository.NewMemoryCasesRepo()
	}
	if err != nil {
		log.Warn("database connection failed, falling back to memory", zap.String("driver", cfg.Database.Driver), zap.Error(err))
		return nil, repository.NewMemoryCasesRepo()
	}

	if cfg.AutoMigrate {
		migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := repository.EnsureSchema(migrateCtx, db, cfg.Database.Driver); err != nil {
			log.Warn("schema migration failed, falling back to memory", zap.Error(err))
			_ = database.Close(db)
			return nil, repository.NewMemoryCasesRepo()
		}
	}

	log.Info("case store: database", zap.String("driver", cfg.Database.Driver))
	if cfg.Database.Driver == commoncfg.DriverSQLite {
		return db, repository.NewSQLiteCasesRepository(db)
	}
	return db, repository.NewPostgresCasesRepository(db)
}
