package di

import (
	"context"
	"fmt"
	"time"

	"CoinLake/internal/domain/repository"
	"CoinLake/internal/emitter"
	"CoinLake/internal/handler/api"
	"CoinLake/internal/indicator"
	"CoinLake/internal/ingest"
	"CoinLake/internal/reconcile"
	internalrepo "CoinLake/internal/repository"
	"CoinLake/internal/usecase"
	"CoinLake/pkg/cache"
	pkgch "CoinLake/pkg/clickhouse"
	"CoinLake/pkg/config"
	xhttp "CoinLake/pkg/http"
	pkgkafka "CoinLake/pkg/kafka"
	applogger "CoinLake/pkg/logger"
	"CoinLake/pkg/metrics"
	"CoinLake/pkg/server"
	"CoinLake/pkg/storage"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideStore creates the blob store backend.
func ProvideStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case "badger":
		return storage.NewBadgerStore(cfg.Storage.Root)
	default:
		return storage.NewFSStore(cfg.Storage.Root)
	}
}

// ProvideSnapshotSource creates the bronze batch reader.
func ProvideSnapshotSource(store storage.Store, cfg *config.Config) repository.SnapshotSource {
	return internalrepo.NewBlobSnapshotSource(store, cfg.Storage.BronzePrefix)
}

// ProvideHistoryTable creates the silver Parquet table.
func ProvideHistoryTable(store storage.Store, cfg *config.Config) repository.HistoryTable {
	return internalrepo.NewParquetHistoryTable(store, cfg.Storage.SilverKey)
}

// ProvideAggregateTable creates the gold Parquet table.
func ProvideAggregateTable(store storage.Store, cfg *config.Config) repository.AggregateTable {
	return internalrepo.NewParquetAggregateTable(store, cfg.Storage.GoldKey)
}

// ProvideMarketFetcher creates the CoinGecko markets client.
func ProvideMarketFetcher(cfg *config.Config, l *applogger.Logger) ingest.MarketFetcher {
	return ingest.NewCoinGeckoClient(ingest.CoinGeckoConfig{
		BaseURL:      cfg.CoinGecko.BaseURL,
		APIKey:       cfg.CoinGecko.APIKey,
		Currency:     cfg.CoinGecko.Currency,
		Timeout:      cfg.CoinGecko.Timeout,
		RetryMax:     cfg.CoinGecko.RetryMax,
		RetryWaitMin: cfg.CoinGecko.RetryWaitMin,
		RetryWaitMax: cfg.CoinGecko.RetryWaitMax,
	}, l)
}

// ProvideIngestor creates the bronze stage runner.
func ProvideIngestor(fetcher ingest.MarketFetcher, store storage.Store, cfg *config.Config, m repository.Metrics, l *applogger.Logger) *ingest.Ingestor {
	return ingest.NewIngestor(fetcher, store, cfg.Storage.BronzePrefix, cfg.Pipeline.Coins, m, l)
}

// ProvideReconciler creates the silver stage reconciler.
func ProvideReconciler() *reconcile.Reconciler {
	return reconcile.New()
}

// ProvideSilverRunner creates the silver stage runner.
func ProvideSilverRunner(
	source repository.SnapshotSource,
	history repository.HistoryTable,
	reconciler *reconcile.Reconciler,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.SilverRunner {
	return usecase.NewSilverRunner(source, history, reconciler, m, l)
}

// ProvideEngine creates the indicator engine from pipeline settings.
func ProvideEngine(cfg *config.Config) *indicator.Engine {
	return indicator.NewEngine(indicator.Params{
		MAWindow:       cfg.Pipeline.MAWindow,
		MomentumWindow: cfg.Pipeline.MomentumWindow,
		Thresholds: indicator.Thresholds{
			Dip:        cfg.Pipeline.DipThreshold,
			Rally:      cfg.Pipeline.RallyThreshold,
			Oversold:   cfg.Pipeline.OversoldLevel,
			Overbought: cfg.Pipeline.OverboughtLevel,
		},
		ReprocessDays: cfg.Pipeline.ReprocessDays,
	})
}

// ProvideNotifier creates the alert channel selected in config.
func ProvideNotifier(cfg *config.Config, l *applogger.Logger) (repository.Notifier, error) {
	switch cfg.Notify.Channel {
	case "kafka":
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
		return emitter.NewKafkaNotifier(producer, cfg.Kafka.Topic), nil
	case "webhook":
		return emitter.NewWebhookNotifier(cfg.Notify.WebhookURL, 10*time.Second), nil
	case "none":
		return emitter.NoopNotifier{}, nil
	default:
		return emitter.NewLogNotifier(l), nil
	}
}

// ProvideEmitter creates the alert emitter.
func ProvideEmitter(notifier repository.Notifier, m repository.Metrics, l *applogger.Logger) *emitter.Emitter {
	return emitter.New(notifier, m, l)
}

// ProvideClickHouseClient creates the warehouse client, or nil when the
// mirror is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	table := cfg.ClickHouse.Database + ".market_indicators"
	if err := client.InitSchema(ctx, internalrepo.Schema(cfg.ClickHouse.Database, table)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideExporter creates the warehouse mirror, or nil when disabled.
func ProvideExporter(client *pkgch.Client, cfg *config.Config, l *applogger.Logger) *internalrepo.ClickHouseExporter {
	if client == nil {
		return nil
	}
	return internalrepo.NewClickHouseExporter(client.DB(), cfg.ClickHouse.Database+".market_indicators", l)
}

// ProvideGoldRunner creates the gold stage runner.
func ProvideGoldRunner(
	aggregate repository.AggregateTable,
	engine *indicator.Engine,
	em *emitter.Emitter,
	exporter *internalrepo.ClickHouseExporter,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.GoldRunner {
	return usecase.NewGoldRunner(aggregate, engine, em, exporter, m, l)
}

// ProvidePipeline creates the staged pipeline.
func ProvidePipeline(ingestor *ingest.Ingestor, silver *usecase.SilverRunner, gold *usecase.GoldRunner, l *applogger.Logger) *usecase.Pipeline {
	return usecase.NewPipeline(ingestor, silver, gold, l)
}

// ProvideCache creates the in-memory response cache for the dashboard.
func ProvideCache() cache.Service {
	return cache.NewMemoryCache(
		cache.WithMemoryMaxSize(1000),
		cache.WithMemoryCleanup(time.Minute),
	)
}

// ProvideQueryService creates the read-only dashboard query service.
func ProvideQueryService(history repository.HistoryTable, aggregate repository.AggregateTable, c cache.Service) *usecase.QueryService {
	return usecase.NewQueryService(history, aggregate, c)
}

// ProvideHTTPHandler creates the dashboard HTTP handler.
func ProvideHTTPHandler(l *applogger.Logger, query *usecase.QueryService) xhttp.Handler {
	return api.NewDashboardHandler(l, query)
}

// ProvideApp creates the application.
func ProvideApp(
	cfg *config.Config,
	pipeline *usecase.Pipeline,
	handler xhttp.Handler,
	store storage.Store,
	notifier repository.Notifier,
	chClient *pkgch.Client,
	l *applogger.Logger,
) *server.App {
	return server.New(cfg, pipeline, handler, store, notifier, chClient, l)
}
