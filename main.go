package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/kellyselden/poll-pr-status/pkg/ci"
	"github.com/kellyselden/poll-pr-status/pkg/git"
	"github.com/kellyselden/poll-pr-status/pkg/secrets"
	"github.com/kellyselden/poll-pr-status/pkg/status"
)

type options struct {
	request  status.Request
	interval time.Duration
	timeout  time.Duration
	endpoint string
	verbose  bool
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log, err := makeLogger(opts.verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create the logger: %s\n", err)
		os.Exit(1)
	}
	setupLog := log.WithName("setup")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	env, err := ci.FromEnv(ctx)
	if err != nil {
		setupLog.Error(err, "unable to read the CI environment")
		os.Exit(1)
	}
	setupLog.V(1).Info("detected CI environment", "product", env.Product(), "isPR", env.IsPR())

	w := status.New(env)
	w.Log = log.WithName("status")
	w.Endpoint = opts.endpoint
	w.Tokens = secrets.FromEnv()

	s, err := w.Wait(ctx, opts.request)
	if err != nil {
		log.Error(err, "waiting for status failed")
		os.Exit(1)
	}
	if err := writeResult(os.Stdout, s); err != nil {
		log.Error(err, "unable to write the status")
		os.Exit(1)
	}
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}
	fs := pflag.NewFlagSet("poll-pr-status", pflag.ContinueOnError)
	fs.StringVar(&opts.request.Commit, "commit", "", "commit SHA to check, derived from the CI environment if empty")
	fs.StringVar(&opts.request.Repository, "repository", "", "repository URL, read from the nearest package.json if empty")
	fs.StringVar(&opts.request.Context, "context", "", "status context, or check run name, to wait for")
	fs.StringVar(&opts.request.Token, "token", "", "token for the hosting service, defaults to $GITHUB_TOKEN or $GH_TOKEN")
	fs.DurationVar(&opts.interval, "interval", status.DefaultInterval, "delay between polls")
	fs.DurationVar(&opts.timeout, "timeout", status.DefaultTimeout, "total time to wait for the status")
	fs.StringVar(&opts.request.Dir, "dir", "", "directory used to find the git repository and package.json")
	fs.BoolVar(&opts.request.CheckRuns, "check-runs", false, "wait for a check run rather than a commit status")
	fs.StringVar(&opts.request.Filter, "filter", "", "CEL expression the matching entry must satisfy, e.g. status.creator.login == 'travis-ci'")
	fs.StringVar(&opts.endpoint, "api-endpoint", "", "API endpoint of the hosting service, for GitHub Enterprise")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "log each response")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.request.Context == "" {
		return nil, fmt.Errorf("--context is required")
	}
	opts.request.Interval = &opts.interval
	opts.request.Timeout = &opts.timeout
	return opts, nil
}

func makeLogger(verbose bool) (logr.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zl, err := cfg.Build()
	if err != nil {
		return logr.Discard(), err
	}
	return zapr.NewLogger(zl), nil
}

// writeResult writes the entry as the hosting service returned it, or null if
// the status will never be reported.
func writeResult(out io.Writer, s *git.Status) error {
	if s == nil {
		_, err := fmt.Fprintln(out, "null")
		return err
	}
	body := []byte(s.Raw)
	if len(body) == 0 {
		b, err := json.Marshal(s)
		if err != nil {
			return err
		}
		body = b
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(out)
	return err
}
