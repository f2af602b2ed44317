package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"quizpilot/internal/config"
	"quizpilot/internal/hosts"
	"quizpilot/internal/logging"
	"quizpilot/internal/platform"
)

// runtime is the loaded configuration shared by the page commands.
type runtime struct {
	cfg    config.Config
	root   string
	path   string
	logger *zap.Logger
}

// resolveConfigPath normalizes a config path or finds it from CWD.
func resolveConfigPath(configPath string) (string, error) {
	if strings.TrimSpace(configPath) == "" {
		return config.FindConfigPath("")
	}
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return abs, nil
}

// loadRuntime loads the config, .env files and logger. Without an explicit
// path a missing config falls back to defaults rooted at the working
// directory.
func loadRuntime(configPath string, verbose bool, stderr io.Writer) (*runtime, error) {
	rt := &runtime{}
	resolved, err := resolveConfigPath(configPath)
	var notFound *config.ErrNotFound
	switch {
	case err == nil:
		cfg, err := config.Load(resolved)
		if err != nil {
			return nil, err
		}
		rt.cfg = cfg
		rt.path = resolved
		rt.root = config.RootFromConfigPath(resolved)
	case strings.TrimSpace(configPath) == "" && errors.As(err, &notFound):
		rt.cfg = config.Default()
		rt.root = notFound.Dir
	default:
		return nil, err
	}

	if err := loadEnv(rt.root); err != nil {
		return nil, err
	}
	logCfg := rt.cfg.Log
	if verbose {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg, stderr)
	if err != nil {
		return nil, err
	}
	rt.logger = logger
	return rt, nil
}

// loadEnv reads .env from the project root without overriding variables
// that are already set.
func loadEnv(root string) error {
	path := filepath.Join(root, ".env")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat .env: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// registry builds the adapter registry from the observe and browser settings.
func (rt *runtime) registry() (*platform.Registry, error) {
	return hosts.Default(platform.Options{
		Debounce: rt.cfg.Observe.Debounce(),
		URLPoll:  rt.cfg.Observe.URLPoll(),
		Logger:   rt.logger,
	}, rt.cfg.Browser.AllowedHosts)
}

// resolve anchors a config-relative path at the project root.
func (rt *runtime) resolve(path string) string {
	return config.ResolvePath(rt.root, path)
}

// parseFlags runs fs and reports the exit code to use when parsing stops.
func parseFlags(cmd *Command, fs *flag.FlagSet, args []string, stderr io.Writer) (int, bool) {
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
		printCommandUsage(cmd, stderr)
		return ExitUsage, false
	}
	return ExitOK, true
}
