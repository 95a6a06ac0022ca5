// Command rtdb-sandbox serves an in-memory realtime database for local
// development and demos.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/wesleyorama2/rtdb/internal/config"
	"github.com/wesleyorama2/rtdb/internal/fakedb"
)

type failConfig struct {
	rate float64
	code int
}

func main() {
	addr := flag.String("addr", ":8787", "listen address")
	seed := flag.String("seed", "", "path to a JSON document to start from")
	export := flag.String("export", "", "write the tree to this file on shutdown")
	prefix := flag.String("prefix", "", "path prefix the tree is mounted below, e.g. /db")
	latency := flag.Duration("latency", 0, "artificial latency to inject per request")
	fail := flag.String("fail", "", "failure injection (rate=<float>,code=<httpStatus>)")
	denied := flag.String("denied", "", "comma separated paths answered with 401")
	debug := flag.Bool("debug", false, "log every request")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	failCfg, err := parseFailConfig(*fail)
	if err != nil {
		logger.Error("parse fail flag", "error", err)
		os.Exit(1)
	}

	opts := []fakedb.Option{
		fakedb.WithLogger(logger),
		fakedb.WithLatency(*latency),
	}
	if *prefix != "" {
		opts = append(opts, fakedb.WithPrefix(*prefix))
	}
	if failCfg.rate > 0 {
		opts = append(opts, fakedb.WithFailures(failCfg.rate, failCfg.code))
	}
	if *denied != "" {
		opts = append(opts, fakedb.WithDenied(strings.Split(*denied, ",")...))
	}
	db := fakedb.New(opts...)

	if *seed != "" {
		if err := db.SeedFile(*seed); err != nil {
			logger.Error("load seed", "path", *seed, "error", err)
			os.Exit(1)
		}
	}

	server := &http.Server{
		Addr:              *addr,
		Handler:           db,
		ReadHeaderTimeout: 10 * time.Second,
	}

	host := *addr
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	logger.Info("rtdb-sandbox listening", "addr", *addr)
	fmt.Println()
	fmt.Printf("export %s=http://%s%s\n", config.EnvBaseURL, host, strings.TrimRight(*prefix, "/"))
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	if *export != "" {
		data, err := db.Export("")
		if err == nil {
			err = os.WriteFile(*export, data, 0o644)
		}
		if err != nil {
			logger.Error("export tree", "path", *export, "error", err)
			os.Exit(1)
		}
		logger.Info("tree exported", "path", *export)
	}
}

func parseFailConfig(s string) (failConfig, error) {
	var cfg failConfig
	if s == "" {
		return cfg, nil
	}
	for _, part := range strings.Split(s, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return cfg, fmt.Errorf("invalid fail option %q", part)
		}
		switch key {
		case "rate":
			rate, err := strconv.ParseFloat(value, 64)
			if err != nil || rate < 0 || rate > 1 {
				return cfg, fmt.Errorf("invalid rate %q", value)
			}
			cfg.rate = rate
		case "code":
			code, err := strconv.Atoi(value)
			if err != nil || code < 100 || code > 599 {
				return cfg, fmt.Errorf("invalid code %q", value)
			}
			cfg.code = code
		default:
			return cfg, fmt.Errorf("unknown fail option %q", key)
		}
	}
	return cfg, nil
}
