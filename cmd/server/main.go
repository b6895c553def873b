package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"regcheck/internal/identity"
	"regcheck/internal/jurisdiction"
	"regcheck/internal/monitoring"
	"regcheck/internal/platform/config"
	"regcheck/internal/platform/database"
	"regcheck/internal/platform/httpserver"
	"regcheck/internal/platform/kafka"
	"regcheck/internal/platform/kafka/consumer"
	"regcheck/internal/platform/kafka/producer"
	"regcheck/internal/platform/logger"
	"regcheck/internal/platform/metrics"
	platformredis "regcheck/internal/platform/redis"
	"regcheck/internal/registercheck/handler"
	"regcheck/internal/registercheck/listener"
	"regcheck/internal/registercheck/models"
	"regcheck/internal/registercheck/publisher"
	"regcheck/internal/registercheck/service"
	"regcheck/internal/registercheck/store"
	id "regcheck/pkg/domain"
	"regcheck/pkg/email"
	"regcheck/pkg/platform/httputil"
	"regcheck/pkg/platform/lease"
	"regcheck/pkg/platform/middleware/request"
	"regcheck/pkg/platform/middleware/requesttime"
	"regcheck/pkg/platform/tx"
)

// checkStore is what both store backends provide.
type checkStore interface {
	service.Store
	monitoring.StaleStore
}

type persistence struct {
	store  checkStore
	runner tx.Runner
	locker lease.Locker
	ping   func(ctx context.Context) error
	close  func()
}

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Server.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("register check service stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	m := metrics.New(prometheus.DefaultRegisterer)

	rdb, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	p, err := openPersistence(ctx, cfg, rdb)
	if err != nil {
		return err
	}
	defer p.close()

	prodClient, err := kafka.NewProducerClient(cfg.Kafka.Brokers)
	if err != nil {
		return err
	}
	defer prodClient.Close()
	if cfg.Kafka.AutoCreateTopics {
		if err := kafka.EnsureTopics(ctx, prodClient, cfg.Kafka.TopicPartitions, cfg.Kafka.TopicReplicationFactor, allTopics(cfg.Kafka)...); err != nil {
			return err
		}
	}

	resultTopics, err := sourceTopics(cfg.Kafka.ResultTopics)
	if err != nil {
		return err
	}
	pub, err := publisher.New(producer.New(prodClient), resultTopics, cfg.Kafka.TopicReplication,
		publisher.WithMetrics(m),
		publisher.WithLogger(log),
	)
	if err != nil {
		return err
	}

	authorities := identity.NewCache(
		identity.NewDirectoryClient(cfg.Directory.IdentityURL, cfg.Directory.Timeout),
		cfg.Directory.IdentityCacheTTL,
		identity.WithMetrics(m),
		identity.WithLogger(log),
	)
	jurisdictions := jurisdiction.NewClient(cfg.Directory.JurisdictionURL, cfg.Directory.Timeout)

	svc, err := service.New(p.store, p.runner, authorities, jurisdictions, pub,
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithPageSize(cfg.RegisterCheck.PendingPageSize),
		service.WithReplication(cfg.RegisterCheck.ReplicationForwardingEnabled),
	)
	if err != nil {
		return err
	}

	routes := consumer.NewRouter(log)
	listener.New(svc, log).Register(routes, cfg.Kafka.TopicInitiateCheck, cfg.Kafka.TopicRemoveCheckData)
	consClient, err := kafka.NewConsumerClient(cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroup, routes.Topics())
	if err != nil {
		return err
	}
	defer consClient.Close()
	cons := consumer.New(consClient, routes, log)

	sched, err := buildScheduler(cfg, p, svc, m, log)
	if err != nil {
		return err
	}

	srv := httpserver.New(cfg.Server.Addr, newRouter(handler.New(svc, log), p, rdb))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpserver.Run(gctx, srv, log) })
	g.Go(func() error { return cons.Run(gctx) })
	if sched != nil {
		g.Go(func() error { return sched.Run(gctx) })
	}
	return g.Wait()
}

func openPersistence(ctx context.Context, cfg config.Config, rdb *platformredis.Client) (persistence, error) {
	if cfg.Database.Driver == config.DriverMemory {
		return persistence{
			store:  store.NewInMemory(),
			runner: tx.Passthrough{},
			locker: lease.NewMemory(),
			ping:   func(context.Context) error { return nil },
			close:  func() {},
		}, nil
	}

	pool := database.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	primary, err := database.Open(ctx, cfg.Database.URL, pool)
	if err != nil {
		return persistence{}, err
	}
	replica := primary
	if cfg.Database.ReplicaURL != "" {
		if replica, err = database.Open(ctx, cfg.Database.ReplicaURL, pool); err != nil {
			_ = primary.Close()
			return persistence{}, err
		}
	}
	router := database.NewRouter(primary, replica)

	var locker lease.Locker = lease.NewPostgres(primary)
	if rdb != nil {
		locker = lease.NewRedis(rdb.Client)
	}
	return persistence{
		store:  store.NewPostgres(router),
		runner: router,
		locker: locker,
		ping:   router.Ping,
		close:  func() { _ = router.Close() },
	}, nil
}

func buildScheduler(cfg config.Config, p persistence, svc *service.Service, m *metrics.Metrics, log *slog.Logger) (*monitoring.Scheduler, error) {
	if !cfg.Monitor.Enabled && cfg.RegisterCheck.ArchiveAfter <= 0 {
		return nil, nil
	}
	leases, err := lease.NewRunner(p.locker, cfg.Monitor.LeaseAtLeast, cfg.Monitor.LeaseAtMost)
	if err != nil {
		return nil, err
	}
	sched := monitoring.NewScheduler(leases, log, monitoring.WithSchedulerMetrics(m))

	if cfg.Monitor.Enabled {
		excluded, err := jurisdictionCodes(cfg.Monitor.ExcludedJurisdictions)
		if err != nil {
			return nil, err
		}
		opts := []monitoring.Option{
			monitoring.WithLogger(log),
			monitoring.WithMetrics(m),
			monitoring.WithExcluded(excluded),
		}
		if cfg.Monitor.EmailEnabled {
			mailer, err := email.NewSMTPSender(email.Config{
				Host:     cfg.SMTP.Host,
				Port:     cfg.SMTP.Port,
				Username: cfg.SMTP.Username,
				Password: cfg.SMTP.Password,
				Timeout:  cfg.SMTP.Timeout,
			})
			if err != nil {
				return nil, err
			}
			opts = append(opts, monitoring.WithDigest(mailer, cfg.Monitor.EmailSender, cfg.Monitor.EmailRecipients))
		}
		sweeper, err := monitoring.NewSweeper(p.store, p.runner, cfg.Monitor.StaleThreshold, opts...)
		if err != nil {
			return nil, err
		}
		if err := sched.Add(cfg.Monitor.Schedule, cfg.Monitor.LeaseName, func(ctx context.Context) error {
			_, err := sweeper.Run(ctx)
			return err
		}); err != nil {
			return nil, err
		}
	}

	if cfg.RegisterCheck.ArchiveAfter > 0 {
		if err := sched.Add("@daily", "register-check-archive", func(ctx context.Context) error {
			_, err := svc.Archive(ctx, cfg.RegisterCheck.ArchiveAfter)
			return err
		}); err != nil {
			return nil, err
		}
	}
	return sched, nil
}

func newRouter(h *handler.Handler, p persistence, rdb *platformredis.Client) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		status := map[string]string{"database": "ok"}
		healthy := true
		if err := p.ping(ctx); err != nil {
			status["database"] = err.Error()
			healthy = false
		}
		if rdb != nil {
			status["redis"] = "ok"
			if err := rdb.Health(ctx); err != nil {
				status["redis"] = err.Error()
				healthy = false
			}
		}
		code := http.StatusOK
		if !healthy {
			code = http.StatusServiceUnavailable
		}
		httputil.WriteJSON(w, code, status)
	})
	r.Handle("/metrics", promhttp.Handler())

	h.Register(r)
	h.RegisterAdmin(r)
	return r
}

func allTopics(k config.Kafka) []string {
	topics := []string{k.TopicInitiateCheck, k.TopicRemoveCheckData, k.TopicReplication}
	for _, t := range k.ResultTopics {
		topics = append(topics, t)
	}
	return topics
}

func sourceTopics(raw map[string]string) (map[models.SourceType]string, error) {
	out := make(map[models.SourceType]string, len(raw))
	var errs []error
	for name, topic := range raw {
		st, err := models.ParseSourceType(name)
		if err != nil {
			errs = append(errs, fmt.Errorf("result topic for %q: %w", name, err))
			continue
		}
		out[st] = topic
	}
	return out, errors.Join(errs...)
}

func jurisdictionCodes(raw []string) ([]id.JurisdictionCode, error) {
	out := make([]id.JurisdictionCode, 0, len(raw))
	for _, s := range raw {
		code, err := id.ParseJurisdictionCode(s)
		if err != nil {
			return nil, fmt.Errorf("MONITOR_EXCLUDED_JURISDICTIONS: %w", err)
		}
		out = append(out, code)
	}
	return out, nil
}
