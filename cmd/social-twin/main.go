package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/raezil/social-go/internal/twin"
)

func main() {
	var (
		addr    string
		fixture string
		verbose bool
	)
	root := &cobra.Command{
		Use:          "social-twin",
		Short:        "Serve an in-memory twin of the Facebook Graph and LinkedIn APIs",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.SetHandler(cli.Default)
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
			return serve(cmd.Context(), addr, fixture)
		},
	}
	root.Flags().StringVar(&addr, "addr", envOr("TWIN_ADDR", ":8089"), "listen address")
	root.Flags().StringVar(&fixture, "fixture", "", "YAML fixture to seed from (default: built-in)")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every request")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, addr, fixturePath string) error {
	fx := twin.DefaultFixture()
	if fixturePath != "" {
		var err error
		if fx, err = twin.LoadFixtureFile(fixturePath); err != nil {
			return err
		}
	}

	t := twin.New(twin.NewStore(fx), twin.WithRegisterer(prometheus.DefaultRegisterer))
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", otelhttp.NewHandler(t, "social-twin"))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("social-twin listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
