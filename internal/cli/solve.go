package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"

	"quizpilot/internal/audit"
	"quizpilot/internal/browser"
	"quizpilot/internal/config"
	"quizpilot/internal/dom"
	"quizpilot/internal/screenshot"
	"quizpilot/internal/solver"
	"quizpilot/internal/transport"
	"quizpilot/internal/ui/live"
)

// stringList collects a repeatable flag.
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ",")
}

func (l *stringList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

type solveFlags struct {
	configPath string
	pageURL    string
	liveURL    string
	out        string
	answers    string
	ui         string
	verbose    bool
	noHistory  bool
	only       stringList
}

// runSolve builds the handler for the solve command.
func runSolve(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		var opts solveFlags
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		flags.StringVar(&opts.configPath, "config", "", "Path to config file")
		flags.StringVar(&opts.pageURL, "url", "", "Address the snapshot was taken from")
		flags.StringVar(&opts.liveURL, "live", "", "Open this address in Chrome instead of reading a snapshot")
		flags.StringVar(&opts.out, "out", "", "Write the answered snapshot to this file")
		flags.StringVar(&opts.answers, "answers", "", "Answer key to use instead of the configured transport")
		flags.StringVar(&opts.ui, "ui", "auto", "Progress display: auto|live|plain")
		flags.BoolVar(&opts.verbose, "verbose", false, "Log debug output to stderr")
		flags.BoolVar(&opts.noHistory, "no-history", false, "Do not record attempts")
		flags.Var(&opts.only, "only", "Solve only this question id (repeatable)")
		if code, ok := parseFlags(cmd, flags, args, stderr); !ok {
			return code
		}

		var snapshot string
		if opts.liveURL == "" {
			path, err := snapshotArg(flags.Args())
			if err != nil {
				fmt.Fprintln(stderr, err)
				printCommandUsage(cmd, stderr)
				return ExitUsage
			}
			snapshot = path
		} else if flags.NArg() > 0 {
			fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(flags.Args(), " "))
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		decision, err := resolveUIMode(opts.ui, opts.verbose, stdout)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return ExitUsage
		}
		if decision.warning != "" {
			fmt.Fprintln(stderr, decision.warning)
		}

		rt, err := loadRuntime(opts.configPath, opts.verbose, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}
		defer func() { _ = rt.logger.Sync() }()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return solvePage(ctx, rt, opts, snapshot, decision, stdout, stderr)
	}
}

func solvePage(ctx context.Context, rt *runtime, opts solveFlags, snapshot string, decision uiModeDecision, stdout, stderr io.Writer) int {
	registry, err := rt.registry()
	if err != nil {
		fmt.Fprintf(stderr, "Solve failed: %v\n", err)
		return ExitError
	}

	var doc *dom.Document
	var shots screenshot.Provider = screenshot.None{}
	var mirror solver.Mirror
	if opts.liveURL != "" {
		if !registry.HostAllowed(opts.liveURL) {
			fmt.Fprintf(stderr, "Solve failed: %s is not an allowed host; add it to browser.allowed_hosts\n", opts.liveURL)
			return ExitError
		}
		b, err := browser.Launch(ctx, browser.Options{
			Headless:     rt.cfg.Browser.IsHeadless(),
			ExecPath:     rt.cfg.Browser.ExecPath,
			UserDataDir:  rt.cfg.Browser.UserDataDir,
			WaitSelector: rt.cfg.Browser.WaitSelector,
			Timeout:      rt.cfg.Browser.Timeout(),
			Logger:       rt.logger,
		})
		if err != nil {
			fmt.Fprintf(stderr, "Solve failed: %v\n", err)
			return ExitError
		}
		defer b.Close()
		doc, err = b.Open(ctx, opts.liveURL)
		if err != nil {
			fmt.Fprintf(stderr, "Solve failed: %v\n", err)
			return ExitError
		}
		if rt.cfg.Transport.Screenshots {
			shots = b
		}
		mirror = b
	} else {
		doc, err = loadSnapshot(snapshot, opts.pageURL)
		if err != nil {
			fmt.Fprintf(stderr, "Solve failed: %v\n", err)
			return ExitError
		}
	}

	adapter, ok := registry.Detect(doc)
	if !ok {
		fmt.Fprintln(stdout, "No supported quiz detected; nothing to do")
		return ExitOK
	}

	tr, err := buildTransport(rt, opts.answers)
	if err != nil {
		fmt.Fprintf(stderr, "Solve failed: %v\n", err)
		return ExitError
	}

	cfg := solver.Config{
		Document:    doc,
		Adapter:     adapter,
		Transport:   tr,
		Screenshots: shots,
		Mirror:      mirror,
		Logger:      rt.logger,
	}
	if rt.cfg.Audit.Path != "" && !opts.noHistory {
		store, err := audit.Open(ctx, rt.resolve(rt.cfg.Audit.Path))
		if err != nil {
			fmt.Fprintf(stderr, "Solve failed: %v\n", err)
			return ExitError
		}
		defer store.Close()
		cfg.Recorder = store
	}

	var controller *live.Controller
	if decision.useLive {
		controller = live.Start(stdout, live.Options{NoColor: decision.noColor})
		cfg.Observer = controller
	} else {
		cfg.Observer = solver.NewPlainObserver(stdout)
	}

	session, err := solver.New(cfg)
	if err != nil {
		controller.Close()
		fmt.Fprintf(stderr, "Solve failed: %v\n", err)
		return ExitError
	}
	session.Start()
	runErr := solveSelected(ctx, session, opts.only)
	summary := session.Close()
	if controller != nil {
		controller.Wait()
		fmt.Fprintf(stdout, "%d questions: %d applied, %d failed, %d timed out\n",
			summary.Total, summary.Success, summary.Error, summary.Timeout)
	}
	if runErr != nil {
		fmt.Fprintf(stderr, "Solve failed: %v\n", runErr)
		return ExitError
	}

	if opts.out != "" {
		if err := writeSnapshot(doc, opts.out); err != nil {
			fmt.Fprintf(stderr, "Solve failed: %v\n", err)
			return ExitError
		}
		rt.logger.Info("wrote answered snapshot", zap.String("path", opts.out))
	}
	if summary.Error > 0 || summary.Timeout > 0 {
		return ExitError
	}
	return ExitOK
}

// solveSelected solves the listed ids, or every attached question.
func solveSelected(ctx context.Context, session *solver.Session, only []string) error {
	if len(only) == 0 {
		session.SolveAll(ctx)
		return nil
	}
	for _, id := range only {
		// A detached question is already reported through its status.
		if _, err := session.Solve(ctx, id); err != nil && !errors.Is(err, solver.ErrDetached) {
			return err
		}
	}
	return nil
}

// buildTransport picks the answer source: an explicit key file, the
// configured answer key, or the remote model.
func buildTransport(rt *runtime, answers string) (transport.Transport, error) {
	keyPath := strings.TrimSpace(answers)
	if keyPath == "" && rt.cfg.Transport.Provider == config.ProviderAnswerKey {
		keyPath = rt.resolve(rt.cfg.Transport.AnswerKey)
	}
	if keyPath != "" {
		static, err := transport.NewStatic(keyPath)
		if err != nil {
			return nil, err
		}
		return static, nil
	}
	remote, err := transport.FromSettings(rt.cfg.Transport.Settings(), rt.cfg.Transport.APIKeyEnv, nil, rt.logger)
	if err != nil {
		return nil, err
	}
	return remote, nil
}

func writeSnapshot(doc *dom.Document, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	var renderErr error
	doc.Do(func() { renderErr = doc.Render(file) })
	if renderErr != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", path, renderErr)
	}
	return file.Close()
}
