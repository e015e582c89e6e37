package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"rpc-gateway/client"
	"rpc-gateway/gateway"
	"rpc-gateway/gateway/application"
	"rpc-gateway/gateway/domain"
	"rpc-gateway/gateway/infra"
	"rpc-gateway/region"
)

func main() {
	cfg, err := readConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("config error")
	}

	logger := newLogger(cfg)
	log.Logger = logger

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var rdb *redis.Client
	if cfg.storeBackend == "redis" || (cfg.statsEnabled && cfg.statsBackend == "redis") {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.redisAddr,
			Password: cfg.redisPassword,
			DB:       cfg.redisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("redis ping error")
		}
	}

	var docs domain.DocumentStore
	switch cfg.storeBackend {
	case "redis":
		docs = infra.NewRedisDocumentStore(rdb, infra.WithDocPrefix(cfg.redisPrefix))
	default:
		// memória: a coleção nasce ausente, como no backend gerenciado, e o
		// primeiro GET_TODOS a provisiona
		docs = infra.NewMemoryDocumentStore()
	}

	var stats domain.StatsStore
	if cfg.statsEnabled {
		if cfg.statsBackend == "redis" {
			stats = infra.NewRedisStatsStore(
				rdb,
				infra.WithStatsPrefix(cfg.statsPrefix),
				infra.WithStatsTTL(cfg.statsTTL),
				infra.WithStatsBucket(cfg.statsBucket),
				infra.WithStatsTrackKeys(cfg.statsTrackKeys),
			)
		} else {
			stats = infra.NewMemoryStatsStore(infra.WithTrackKeys(cfg.statsTrackKeys))
		}
	}

	var caller domain.FunctionCaller
	if len(cfg.peerFunctions) > 0 {
		caller = &client.PeerCaller{
			URLs: cfg.peerFunctions,
			Base: client.Options{AppName: cfg.appName, Logger: logger},
		}
	}

	var asset []byte
	if cfg.uploadAsset != "" {
		asset, err = os.ReadFile(cfg.uploadAsset)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.uploadAsset).Msg("upload asset read error")
		}
	}

	handlers := application.HandlerSet{
		Store:  docs,
		Files:  infra.NewDiskFileStore(cfg.filesDir),
		Caller: caller,
		Asset:  asset,
		Logger: logger,
	}

	dispatcher := &application.Dispatcher{
		Guard: application.Guard{
			Counters: infra.NewCounterStore(),
			Ceiling:  cfg.throttleCeiling,
			Logger:   logger,
		},
		Registry: handlers.Registry(),
		Stats:    stats,
		Logger:   logger,
	}

	var regionFn func(ip string) string
	if cfg.regionDataset != "" {
		table, err := region.LoadFile(cfg.regionDataset)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.regionDataset).Msg("region dataset error")
		}
		loc := region.Locator{Searcher: table, Logger: logger}
		regionFn = func(ip string) string { return loc.Region(ip, cfg.regionDetail) }
	}

	var rotator gateway.TokenRotator
	if cfg.rotateTokens {
		rotator = gateway.UUIDRotator{}
	}

	promReg := prometheus.NewRegistry()

	h := http.Handler(gateway.Handler(gateway.Options{
		Dispatcher:         dispatcher,
		KeyHeader:          cfg.keyHeader,
		TrustXForwardedFor: cfg.trustXFF,
		Rotator:            rotator,
		Region:             regionFn,
		Metrics:            gateway.NewMetrics(promReg),
		Logger:             logger,
	}))
	h = gateway.ConcurrencyMiddleware(gateway.ConcurrencyOptions{
		Max:            cfg.concurrencyMax,
		RejectStatus:   http.StatusServiceUnavailable,
		AcquireTimeout: cfg.concurrencyTimeout,
	})(h)
	if cfg.rateEnabled {
		store := infra.NewStore(cfg.rateRPS, cfg.rateBurst)
		store.StartJanitor(ctx)
		h = gateway.RateLimitMiddleware(gateway.RateLimitOptions{
			Store:               store,
			KeyHeader:           cfg.keyHeader,
			TrustXForwardedFor:  cfg.trustXFF,
			RejectStatus:        http.StatusTooManyRequests,
			RetryAfter:          cfg.retryAfter,
			AddRateLimitHeaders: cfg.addHeaders,
		})(h)
	}

	mux := http.NewServeMux()
	mux.Handle("/", h)
	mux.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              cfg.listenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.listenAddr).Str("store", cfg.storeBackend).Msg("gateway listening")
	log.Info().
		Int64("ceiling", cfg.throttleCeiling).
		Bool("rate", cfg.rateEnabled).
		Float64("rps", cfg.rateRPS).
		Int("burst", cfg.rateBurst).
		Int("concurrency", cfg.concurrencyMax).
		Msg("limits")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server error")
	}
}

func newLogger(cfg config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stdout)
	if cfg.logFormat == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
	return logger.Level(level).With().Timestamp().Logger()
}

type config struct {
	listenAddr string
	appName    string

	logLevel  string
	logFormat string

	storeBackend  string
	redisAddr     string
	redisPassword string
	redisDB       int
	redisPrefix   string

	filesDir    string
	uploadAsset string

	throttleCeiling int64
	keyHeader       string
	trustXFF        bool

	rateEnabled bool
	rateRPS     float64
	rateBurst   int
	retryAfter  time.Duration
	addHeaders  bool

	concurrencyMax     int
	concurrencyTimeout time.Duration

	statsEnabled   bool
	statsBackend   string
	statsPrefix    string
	statsTTL       time.Duration
	statsBucket    string
	statsTrackKeys bool

	regionDataset string
	regionDetail  bool

	rotateTokens  bool
	peerFunctions map[string]string
}

func readConfig() (config, error) {
	v := viper.New()
	v.SetEnvPrefix("GATEWAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("app_name", "rpc-gateway")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("store.backend", "memory")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "gateway:docs")
	v.SetDefault("files.dir", "data/files")
	v.SetDefault("files.upload_asset", "")
	v.SetDefault("throttle.ceiling", application.DefaultCeiling)
	v.SetDefault("key_header", "")
	v.SetDefault("trust_xff", false)
	v.SetDefault("rate.enabled", false)
	v.SetDefault("rate.rps", 10)
	v.SetDefault("rate.burst", 20)
	v.SetDefault("rate.retry_after", time.Second)
	v.SetDefault("rate.add_headers", false)
	v.SetDefault("concurrency.max", 100)
	v.SetDefault("concurrency.timeout", time.Duration(0))
	v.SetDefault("stats.enabled", false)
	v.SetDefault("stats.backend", "memory")
	v.SetDefault("stats.prefix", "gateway:stats")
	v.SetDefault("stats.ttl", 24*time.Hour)
	v.SetDefault("stats.bucket", "minute")
	v.SetDefault("stats.track_keys", false)
	v.SetDefault("region.dataset", "")
	v.SetDefault("region.detail", false)
	v.SetDefault("auth.rotate_tokens", false)

	// arquivo opcional gateway.yaml no diretório de trabalho
	v.SetConfigName("gateway")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return config{}, err
		}
	}

	cfg := config{
		listenAddr:         v.GetString("listen_addr"),
		appName:            v.GetString("app_name"),
		logLevel:           v.GetString("log.level"),
		logFormat:          v.GetString("log.format"),
		storeBackend:       v.GetString("store.backend"),
		redisAddr:          v.GetString("redis.addr"),
		redisPassword:      v.GetString("redis.password"),
		redisDB:            v.GetInt("redis.db"),
		redisPrefix:        v.GetString("redis.prefix"),
		filesDir:           v.GetString("files.dir"),
		uploadAsset:        v.GetString("files.upload_asset"),
		throttleCeiling:    v.GetInt64("throttle.ceiling"),
		keyHeader:          v.GetString("key_header"),
		trustXFF:           v.GetBool("trust_xff"),
		rateEnabled:        v.GetBool("rate.enabled"),
		rateRPS:            v.GetFloat64("rate.rps"),
		rateBurst:          v.GetInt("rate.burst"),
		retryAfter:         v.GetDuration("rate.retry_after"),
		addHeaders:         v.GetBool("rate.add_headers"),
		concurrencyMax:     v.GetInt("concurrency.max"),
		concurrencyTimeout: v.GetDuration("concurrency.timeout"),
		statsEnabled:       v.GetBool("stats.enabled"),
		statsBackend:       v.GetString("stats.backend"),
		statsPrefix:        v.GetString("stats.prefix"),
		statsTTL:           v.GetDuration("stats.ttl"),
		statsBucket:        v.GetString("stats.bucket"),
		statsTrackKeys:     v.GetBool("stats.track_keys"),
		regionDataset:      v.GetString("region.dataset"),
		regionDetail:       v.GetBool("region.detail"),
		rotateTokens:       v.GetBool("auth.rotate_tokens"),
		peerFunctions:      v.GetStringMapString("peer_functions"),
	}

	if cfg.storeBackend != "memory" && cfg.storeBackend != "redis" {
		return config{}, errors.New("GATEWAY_STORE_BACKEND must be memory or redis")
	}
	if cfg.storeBackend == "redis" && strings.TrimSpace(cfg.redisAddr) == "" {
		return config{}, errors.New("GATEWAY_REDIS_ADDR is required when GATEWAY_STORE_BACKEND=redis")
	}
	if cfg.statsEnabled && cfg.statsBackend == "redis" && strings.TrimSpace(cfg.redisAddr) == "" {
		return config{}, errors.New("GATEWAY_REDIS_ADDR is required when GATEWAY_STATS_BACKEND=redis")
	}
	if cfg.throttleCeiling <= 0 {
		return config{}, errors.New("GATEWAY_THROTTLE_CEILING must be > 0")
	}
	if cfg.rateEnabled && cfg.rateRPS <= 0 {
		return config{}, errors.New("GATEWAY_RATE_RPS must be > 0")
	}
	if cfg.rateEnabled && cfg.rateBurst <= 0 {
		return config{}, errors.New("GATEWAY_RATE_BURST must be > 0")
	}
	if cfg.concurrencyMax < 0 {
		return config{}, errors.New("GATEWAY_CONCURRENCY_MAX must be >= 0")
	}
	return cfg, nil
}
