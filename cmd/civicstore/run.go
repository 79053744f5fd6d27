package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/forkthecity/microsite-store/internal/app/datastore"
	platformclock "github.com/forkthecity/microsite-store/internal/platform/clock"
	"github.com/forkthecity/microsite-store/internal/platform/config"
	"github.com/forkthecity/microsite-store/internal/platform/idgen"
	"github.com/forkthecity/microsite-store/internal/platform/logging"
)

const usageText = `usage: civicstore [-config file] [-env-file file] <command> [args]

commands:
  export [-o file]        write a JSON snapshot of every collection
  import [-i file]        overwrite collections from a snapshot (stdin by default)
  clear -yes              delete every collection and the session
  usage                   report storage used against capacity
  encode-image file...    print data URLs for image files
  seed-demo               create a demo member, organization, business and posts
`

type command func(ctx context.Context, env *env, args []string) error

var commands = map[string]command{
	"export":       cmdExport,
	"import":       cmdImport,
	"clear":        cmdClear,
	"usage":        cmdUsage,
	"encode-image": cmdEncodeImage,
	"seed-demo":    cmdSeedDemo,
}

// env is what a command runs against.
type env struct {
	cfg    config.Config
	log    *logrus.Logger
	stdin  io.Reader
	stdout io.Writer
	store  func(ctx context.Context) (*datastore.Store, error)
}

var errUsage = errors.New("usage")

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("civicstore", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usageText) }
	configFile := fs.String("config", "", "YAML config file (default ./config.yaml if present)")
	envFile := fs.String("env-file", ".env", "dotenv file loaded before reading the environment")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	cmd, ok := commands[fs.Arg(0)]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", fs.Arg(0))
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(config.Options{File: *configFile, EnvFile: *envFile})
	if err != nil {
		fmt.Fprintf(stderr, "invalid config: %v\n", err)
		return 1
	}
	log := logging.New(cfg.Log.Level, stderr)

	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()
	e := &env{
		cfg:    cfg,
		log:    log,
		stdin:  stdin,
		stdout: stdout,
		store: func(ctx context.Context) (*datastore.Store, error) {
			clk := platformclock.NewSystemClock()
			ids, err := idgen.New(cfg.IDs.Scheme, clk)
			if err != nil {
				return nil, err
			}
			kv, closeFn, err := openMedium(ctx, cfg.Store, log)
			if err != nil {
				return nil, err
			}
			closers = append(closers, closeFn)
			return datastore.New(kv, datastore.Options{
				Clock:           clk,
				IDs:             ids,
				Log:             log,
				VerifyPasswords: cfg.Auth.VerifyPasswords,
				CapacityBytes:   cfg.Store.QuotaBytes,
			}), nil
		},
	}

	if err := cmd(ctx, e, fs.Args()[1:]); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			fmt.Fprint(stderr, usageText)
			return 2
		}
		log.WithError(err).WithField("command", fs.Arg(0)).Error("command failed")
		return 1
	}
	return 0
}

func openInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(stdin), nil
	}
	return os.Open(path)
}
