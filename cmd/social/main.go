package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/raezil/social-go/internal/config"
	"github.com/raezil/social-go/transport"
)

// globals shared by every subcommand, filled in by the root's PersistentPreRunE.
var (
	configPath  string
	verbose     bool
	timeout     time.Duration
	baseURL     string
	dumpMetrics bool

	cfg     *config.Config
	metrics *transport.Metrics
)

func main() {
	root := &cobra.Command{
		Use:           "social",
		Short:         "Query the Facebook Graph and LinkedIn APIs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log.SetHandler(cli.Default)
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
			c, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if timeout > 0 {
				c.Timeout = timeout
			}
			cfg = c
			if dumpMetrics {
				metrics = transport.NewMetrics(prometheus.DefaultRegisterer)
			}
			log.WithField("timeout", cfg.Timeout).Debug("config loaded")
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ~/.social-go/config.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 0, "request timeout (overrides the config file)")
	root.PersistentFlags().StringVar(&baseURL, "base-url", "", "override the API base URL (for testing)")
	root.PersistentFlags().BoolVar(&dumpMetrics, "metrics-dump", false, "write request metrics to stderr on exit")

	root.AddCommand(facebookCommand(), linkedinCommand())

	err := root.ExecuteContext(context.Background())
	if dumpMetrics {
		if derr := writeMetrics(os.Stderr, prometheus.DefaultGatherer); derr != nil {
			log.WithError(derr).Warn("metrics dump failed")
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// writeMetrics encodes the social_client_* families of g in the text format.
func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range mfs {
		if !strings.HasPrefix(mf.GetName(), "social_client_") {
			continue
		}
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

// pick returns the first non-empty value.
func pick(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func httpClient() *http.Client {
	return &http.Client{Timeout: cfg.Timeout}
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, cfg.Timeout)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
