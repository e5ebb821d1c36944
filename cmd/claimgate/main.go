package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claimgate/claimgate/internal/api"
	"github.com/claimgate/claimgate/internal/audit"
	"github.com/claimgate/claimgate/internal/config"
	"github.com/claimgate/claimgate/internal/decision"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := runFn(ctx, os.Args[1:], os.Getenv, listenAndServe, newServer); err != nil {
		fatalf("server error: %v", err)
	}
}

var runFn = run
var fatalf = log.Fatalf

type settings struct {
	Addr        string
	ProfilePath string
	Audit       config.AuditConfig
}

type envFn func(string) string
type listenFn func(ctx context.Context, server *http.Server) error
type serverFactory func(s settings) (*http.Server, io.Closer, error)

func newServer(s settings) (*http.Server, io.Closer, error) {
	evaluator := decision.NewDefaultStub()
	if s.ProfilePath != "" {
		loaded, err := decision.LoadProfile(s.ProfilePath)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("decision profile %s loaded hash=%s", s.ProfilePath, loaded.Hash)
		evaluator = decision.NewStub(loaded.Record)
	}

	sink, hub, err := buildAuditSink(context.Background(), s.Audit)
	if err != nil {
		return nil, nil, err
	}
	logger := audit.NewLogger(sink)

	h := &api.Handler{
		Evaluator: evaluator,
		Audit:     logger,
	}
	if hub != nil {
		h.Stream = hub
	}
	return &http.Server{
		Addr:              s.Addr,
		Handler:           api.NewRouter(h),
		ReadHeaderTimeout: 5 * time.Second,
	}, logger, nil
}

func run(ctx context.Context, args []string, getenv envFn, listen listenFn, factory serverFactory) error {
	fs := flag.NewFlagSet("claimgate", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to claimgate config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfgFile := firstNonEmpty(*configPath, getenv("CLAIMGATE_CONFIG_PATH"))

	var cfg config.Config
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	s := settings{
		Addr:        firstNonEmpty(getenv("CLAIMGATE_LISTEN_ADDR"), cfg.ListenAddr, ":8080"),
		ProfilePath: firstNonEmpty(getenv("CLAIMGATE_PROFILE_PATH"), cfg.ProfilePath),
		Audit:       cfg.Audit,
	}
	s.Audit.File = firstNonEmpty(getenv("CLAIMGATE_AUDIT_FILE"), cfg.Audit.File)

	server, closer, err := factory(s)
	if err != nil {
		return err
	}
	defer func() {
		if closer == nil {
			return
		}
		if err := closer.Close(); err != nil {
			log.Printf("audit sink close error: %v", err)
		}
	}()

	log.Printf("claimgate listening on %s", s.Addr)
	if err := listen(ctx, server); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// listenAndServe serves until ctx is cancelled, then drains in-flight requests.
func listenAndServe(ctx context.Context, server *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("claimgate shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
