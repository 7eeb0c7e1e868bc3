package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/baditaflorin/review_sentiment/internal/adapters/httpapi"
	"github.com/baditaflorin/review_sentiment/internal/adapters/logger"
	"github.com/baditaflorin/review_sentiment/internal/adapters/normalizer"
	"github.com/baditaflorin/review_sentiment/internal/adapters/stream"
	"github.com/baditaflorin/review_sentiment/internal/config"
	"github.com/baditaflorin/review_sentiment/internal/ports"
	"github.com/baditaflorin/review_sentiment/internal/warmup"
)

// Default configuration
const (
	DefaultReadTimeout    = 30 * time.Second
	DefaultWriteTimeout   = 30 * time.Second
	DefaultMaxRequestSize = 10 * 1024 * 1024 // 10MB
	DefaultConcurrency    = 0                // 0 means use fasthttp's default
)

func main() {
	cfg, err := config.FromEnv(config.DefaultConfig(), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading environment: %v\n", err)
		os.Exit(1)
	}

	port := flag.Int("port", cfg.Port, "HTTP server port")
	readTimeout := flag.Duration("read-timeout", DefaultReadTimeout, "HTTP read timeout")
	writeTimeout := flag.Duration("write-timeout", DefaultWriteTimeout, "HTTP write timeout")
	maxRequestSize := flag.Int("max-request-size", DefaultMaxRequestSize, "Maximum request size in bytes")
	concurrency := flag.Int("concurrency", DefaultConcurrency, "Maximum number of concurrent requests (0 = default)")
	workers := flag.Int("workers", cfg.Workers, "Cleaning workers per request (0 = NumCPU)")
	batchSize := flag.Int("batch-size", cfg.BatchSize, "Texts per worker batch")
	warmUp := flag.Bool("warm-up", true, "Perform warm-up on startup")
	logFile := flag.String("log-file", cfg.LogFile, "Log file path (empty = stdout)")
	flag.Parse()

	cfg.Port = *port
	cfg.Workers = *workers
	cfg.BatchSize = *batchSize
	cfg.LogFile = *logFile
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := createLogger(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting review sentiment HTTP server",
		"port", cfg.Port,
		"read_timeout", *readTimeout,
		"write_timeout", *writeTimeout,
		"max_request_size", *maxRequestSize,
		"concurrency", *concurrency,
	)

	handler, err := newHandler(log, cfg, *warmUp)
	if err != nil {
		log.Error("Failed to initialize handler", "error", err)
		os.Exit(1)
	}

	server := &fasthttp.Server{
		Handler:               handler.HandleRequest,
		ReadTimeout:           *readTimeout,
		WriteTimeout:          *writeTimeout,
		MaxRequestBodySize:    *maxRequestSize,
		Concurrency:           *concurrency,
		TCPKeepalive:          true,
		TCPKeepalivePeriod:    3 * time.Minute,
		MaxIdleWorkerDuration: 10 * time.Second,
	}

	// Set up graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Info("Shutting down server...")
		if err := server.Shutdown(); err != nil {
			log.Error("Error during server shutdown", "error", err)
		}
		close(idleConnsClosed)
	}()

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Info("Server listening", "address", addr)
	if err := server.ListenAndServe(addr); err != nil {
		log.Error("Server error", "error", err)
		return
	}

	<-idleConnsClosed
	log.Info("Server stopped")
}

// newHandler builds the cleaning pipeline and optionally warms it up
func newHandler(log ports.Logger, cfg config.Config, warmUp bool) (*httpapi.Handler, error) {
	norm := normalizer.NewNormalizerFactory().CreateNormalizer(normalizer.OptimizedNormalizerType)

	streamCfg := stream.DefaultConfig()
	streamCfg.Workers = cfg.Workers
	streamCfg.BatchSize = cfg.BatchSize
	processor, err := stream.NewProcessor(log, norm, streamCfg)
	if err != nil {
		return nil, err
	}

	if warmUp {
		manager, err := warmup.NewManager(log, warmup.DefaultConfig())
		if err != nil {
			return nil, err
		}
		manager.RegisterNormalizer(norm)
		manager.RegisterBatchNormalizer(processor)
		manager.WarmUp(context.Background())
	}

	log.Info("Cleaning pipeline initialized",
		"warm_up", warmUp,
		"cpus", runtime.NumCPU(),
		"batch_size", cfg.BatchSize,
	)
	return httpapi.NewHandler(log, processor), nil
}

// createLogger creates and configures a JSON logger
func createLogger(logFile string) (ports.Logger, error) {
	var output io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
	}

	lc := logger.DefaultConfig(output, true)
	lc.MaxFileSize = 100 * 1024 * 1024 // 100MB
	log, err := logger.NewCustomStdLogger(lc)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}
