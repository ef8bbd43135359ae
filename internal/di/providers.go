package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"SenateInsight/internal/detector"
	"SenateInsight/internal/domain/repository"
	dsvc "SenateInsight/internal/domain/service"
	"SenateInsight/internal/handler/api"
	mid "SenateInsight/internal/middleware"
	internalrepo "SenateInsight/internal/repository"
	"SenateInsight/internal/service/congress"
	"SenateInsight/internal/service/disclosures"
	"SenateInsight/internal/service/prices"
	"SenateInsight/internal/service/ratelimit"
	"SenateInsight/internal/usecase"
	"SenateInsight/pkg/cache"
	pkgch "SenateInsight/pkg/clickhouse"
	"SenateInsight/pkg/config"
	xhttp "SenateInsight/pkg/http"
	pkgkafka "SenateInsight/pkg/kafka"
	applogger "SenateInsight/pkg/logger"
	"SenateInsight/pkg/metrics"
	"SenateInsight/pkg/queue"
	"SenateInsight/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the
// database exists; table DDL lives with the stores.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database,
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideAlertStore creates the ClickHouse alert store and its table.
func ProvideAlertStore(chClient *pkgch.Client, cfg *config.Config) (repository.AlertStore, error) {
	store := internalrepo.NewClickHouseAlertStore(chClient.DB(), cfg.ClickHouse.Database+".alerts")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("alert store init: %w", err)
	}
	return store, nil
}

// ProvidePriceStore creates the ClickHouse price bar store and its table.
func ProvidePriceStore(chClient *pkgch.Client, cfg *config.Config, l *applogger.Logger) (repository.PriceStore, error) {
	store := internalrepo.NewCHPriceStore(chClient.DB(), cfg.ClickHouse.Database+".daily_bars")
	store.SetLogger(l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("price store init: %w", err)
	}
	return store, nil
}

// ProvideTransactionStore creates the ClickHouse transaction store and its table.
func ProvideTransactionStore(chClient *pkgch.Client, cfg *config.Config) (repository.TransactionStore, error) {
	store := internalrepo.NewCHTransactionStore(chClient.DB(), cfg.ClickHouse.Database+".transactions")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if cs, ok := store.(interface{ Init(context.Context) error }); ok {
		if err := cs.Init(ctx); err != nil {
			return nil, fmt.Errorf("transaction store init: %w", err)
		}
	}
	return store, nil
}

// ProvideAlertPublisher creates the Kafka alert publisher.
func ProvideAlertPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.AlertPublisher {
	return internalrepo.NewKafkaAlertPublisher(producer, cfg.Kafka.Topic)
}

// ProvideRateLimiter creates the shared client-side rate limiter.
func ProvideRateLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideCache creates the price cache: layered memory+Redis when Redis is
// enabled, in-process memory otherwise.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}
	host, port, err := splitAddr(cfg.Redis.Addr)
	if err != nil {
		return nil, fmt.Errorf("redis addr: %w", err)
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(host),
		cache.WithRedisPort(port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(rc), nil
}

func splitAddr(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, err
	}
	return host, port, nil
}

// ProvideMemberSource creates the Congress API client.
func ProvideMemberSource(cfg *config.Config, limiter *ratelimit.Limiter, l *applogger.Logger) dsvc.MemberSource {
	return congress.New(
		cfg.Congress.BaseURL,
		cfg.Congress.APIKey,
		cfg.Congress.Timeout,
		cfg.Congress.RequestsPerSec,
		limiter,
		l,
	)
}

// ProvideDisclosureSource creates the disclosure feed client.
func ProvideDisclosureSource(cfg *config.Config, l *applogger.Logger) dsvc.DisclosureSource {
	return disclosures.New(cfg.Disclosures.BaseURL, cfg.Disclosures.Timeout, l)
}

// ProvidePriceSource creates the cached daily bar source.
func ProvidePriceSource(cfg *config.Config, limiter *ratelimit.Limiter, c cache.Service, l *applogger.Logger) dsvc.PriceSource {
	client := prices.New(
		cfg.Prices.BaseURL,
		cfg.Prices.APIKey,
		cfg.Prices.Timeout,
		cfg.Prices.RequestsPerSec,
		limiter,
		l,
	)
	return prices.NewCachedSource(client, c, cfg.Prices.CacheTTL)
}

// ProvideDetector creates the scorer from analysis config.
func ProvideDetector(cfg *config.Config) *detector.Detector {
	return detector.New(detector.Config{
		TimingWindowDays:       cfg.Analysis.TimingWindowDays,
		SignificantPriceChange: cfg.Analysis.SignificantPriceChange,
		MinConfidenceThreshold: cfg.Analysis.MinConfidenceThreshold,
	})
}

// ProvideAlertProcessor creates the backend-routing alert processor.
func ProvideAlertProcessor(
	pub repository.AlertPublisher,
	store repository.AlertStore,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.AlertProcessor {
	return usecase.NewAlertProcessor(pub, store, m, cfg.Backend.Type)
}

// ProvideAlertPipeline creates the buffered dispatch pipeline.
func ProvideAlertPipeline(proc *usecase.AlertProcessor, m repository.Metrics) *mid.AlertPipeline {
	return mid.NewAlertPipeline(proc, m, mid.WithBufferSize(2000))
}

// ProvideOrchestrator creates the analysis orchestrator.
func ProvideOrchestrator(
	members dsvc.MemberSource,
	filings dsvc.DisclosureSource,
	priceSrc dsvc.PriceSource,
	det *detector.Detector,
	pipe *mid.AlertPipeline,
	txnStore repository.TransactionStore,
	priceStore repository.PriceStore,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.Orchestrator {
	return usecase.NewOrchestrator(
		members, filings, priceSrc, det, pipe, txnStore, priceStore, m, l,
		usecase.OrchestratorConfig{
			LookbackDays:  cfg.Analysis.LookbackDays,
			MaxConcurrent: cfg.Analysis.MaxConcurrentMembers,
			Chamber:       cfg.Analysis.Chamber,
		},
	)
}

// ProvideReporter creates the summary reporter.
func ProvideReporter(store repository.AlertStore) *usecase.Reporter {
	return usecase.NewReporter(store)
}

// ProvideJobQueue creates the Redis-backed async job queue; nil when Redis
// is disabled.
func ProvideJobQueue(cfg *config.Config, l *applogger.Logger, orch *usecase.Orchestrator) (*queue.RedisQueue, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	q := queue.NewRedisConsumer(l, &queue.QueueConfig{
		Workers:    cfg.Queue.Workers,
		RetryLimit: cfg.Queue.RetryLimit,
		RetryDelay: cfg.Queue.RetryDelay,
	}, client, []queue.Job{
		usecase.NewAnalyzeMemberJob(orch, l),
	})
	return q, nil
}

// ProvideHandler creates the Echo HTTP handler.
func ProvideHandler(
	l *applogger.Logger,
	orch *usecase.Orchestrator,
	store repository.AlertStore,
	reporter *usecase.Reporter,
	pipe *mid.AlertPipeline,
	jobQueue *queue.RedisQueue,
) xhttp.Handler {
	var jobs queue.QueueService
	if jobQueue != nil {
		jobs = jobQueue
	}
	return api.NewAlertsEchoHandler(l, orch, store, reporter, pipe, jobs)
}

// kafkaLogPublisher adapts the Kafka producer to the log collector.
type kafkaLogPublisher struct {
	producer *pkgkafka.Producer
}

func (p kafkaLogPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

// ProvideApp creates the application server. When Kafka is the backend,
// error-level logs are aggregated and shipped to a sibling topic.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	orch *usecase.Orchestrator,
	proc *usecase.AlertProcessor,
	pipe *mid.AlertPipeline,
	chClient *pkgch.Client,
	jobQueue *queue.RedisQueue,
	producer *pkgkafka.Producer,
	handler xhttp.Handler,
) *server.App {
	if cfg.Backend.Type == "kafka" && len(cfg.Kafka.Brokers) > 0 {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.Topic + ".logs",
			Publisher:      kafkaLogPublisher{producer: producer},
		})
	}
	app := server.New(cfg, l, orch, proc, pipe, chClient, jobQueue)
	app.SetHTTPHandler(handler)
	return app
}
