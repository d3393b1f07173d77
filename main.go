package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Options struct {
	Config         string        `long:"config" default:"config.ini" description:"Path to the config file with api_token and tournament_id"`
	EnvFile        string        `long:"env-file" default:".env" description:"Optional dotenv file with MATCHPLAY_* overrides"`
	OutDir         string        `short:"o" long:"out" default:"." description:"Directory for the CSV, JSON and HTML outputs"`
	BaseURL        string        `long:"base-url" default:"https://app.matchplay.events/api" description:"MatchPlay API base URL"`
	NonInteractive bool          `long:"non-interactive" description:"Never prompt to create a missing config file"`
	Timeout        time.Duration `long:"timeout" description:"HTTP timeout per request (0 = none)"`
	XLSX           bool          `long:"xlsx" description:"Also write tournament_<id>_final.xlsx"`
	DB             string        `long:"db" description:"sqlite file to archive each run in"`
	Serve          string        `long:"serve" description:"Keep serving archived scoreboards on this address after the run (requires --db)"`
	MintToken      time.Duration `long:"mint-token" description:"Print an admin token for POST /refresh valid for this long, then exit"`
	Verbose        bool          `short:"v" long:"verbose" description:"Debug logging"`
}

func main() {
	var opts Options
	if _, err := flags.Parse(&opts); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		os.Exit(1)
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if opts.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, opts, os.Stdin, os.Stdout, log); err != nil {
		log.Errorf("Error: %v", err)
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, opts Options, stdin io.Reader, stdout io.Writer, log *logrus.Logger) error {
	creds, err := LoadCredentials(ConfigSource{
		Path:        opts.Config,
		EnvFile:     opts.EnvFile,
		Interactive: !opts.NonInteractive,
		In:          stdin,
		Out:         stdout,
	})
	if err != nil {
		return err
	}

	if opts.MintToken > 0 {
		if creds.JWTSecret == "" {
			return &ConfigurationError{Reason: "jwt_secret is not set in the [server] section"}
		}
		token, err := mintAdminToken(creds.JWTSecret, opts.MintToken)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, token)
		return nil
	}

	if opts.Serve != "" && opts.DB == "" {
		return &ConfigurationError{Reason: "--serve requires --db"}
	}

	pipeline := &Pipeline{
		TournamentID: creds.TournamentID,
		OutDir:       opts.OutDir,
		XLSX:         opts.XLSX,
		Fetcher:      NewClient(creds, opts.BaseURL, opts.OutDir, opts.Timeout, log),
		Log:          log,
	}

	if opts.DB != "" {
		archive, err := OpenArchive(opts.DB)
		if err != nil {
			return errors.Wrapf(err, "open archive %s", opts.DB)
		}
		defer archive.Close()
		pipeline.Archive = archive
	}

	if _, err := pipeline.Run(ctx); err != nil {
		return err
	}

	if opts.Serve == "" {
		return nil
	}
	srv, err := NewServer(pipeline.Archive, pipeline, creds.JWTSecret, log)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx, opts.Serve)
}
