package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"quizpilot/internal/api"
	"quizpilot/internal/audit"
)

// serveHTTP is swapped in tests to avoid binding a port.
var serveHTTP = api.Serve

// runServe builds the handler for the serve command.
func runServe(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file")
		addr := flags.String("addr", "", "Listen address (overrides server.addr)")
		verbose := flags.Bool("verbose", false, "Log debug output to stderr")
		noHistory := flags.Bool("no-history", false, "Do not expose recorded attempts")
		if code, ok := parseFlags(cmd, flags, args, stderr); !ok {
			return code
		}
		if flags.NArg() > 0 {
			fmt.Fprintf(stderr, "unexpected argument: %s\n", flags.Arg(0))
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		rt, err := loadRuntime(*configPath, *verbose, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}
		defer func() { _ = rt.logger.Sync() }()

		registry, err := rt.registry()
		if err != nil {
			fmt.Fprintf(stderr, "Serve failed: %v\n", err)
			return ExitError
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		handlerCfg := api.Config{
			Registry:       registry,
			Logger:         rt.logger,
			AllowedOrigins: rt.cfg.Server.AllowedOrigins,
			Timeout:        rt.cfg.Server.Timeout(),
		}
		if rt.cfg.Audit.Path != "" && !*noHistory {
			store, err := audit.Open(ctx, rt.resolve(rt.cfg.Audit.Path))
			if err != nil {
				fmt.Fprintf(stderr, "Serve failed: %v\n", err)
				return ExitError
			}
			defer store.Close()
			handlerCfg.History = store
		}

		listen := rt.cfg.Server.Addr
		if *addr != "" {
			listen = *addr
		}
		err = serveHTTP(ctx, listen, api.NewHandler(handlerCfg), rt.logger, func(bound net.Addr) {
			fmt.Fprintf(stdout, "Listening on http://%s\n", bound)
		})
		if err != nil {
			fmt.Fprintf(stderr, "Serve failed: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
}
