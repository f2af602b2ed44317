package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"quizpilot/internal/audit"
)

// runHistory builds the handler for the history command.
func runHistory(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file")
		limit := flags.Int("limit", 20, "Number of attempts to show")
		asJSON := flags.Bool("json", false, "Print attempts as JSON")
		if code, ok := parseFlags(cmd, flags, args, stderr); !ok {
			return code
		}
		if *limit <= 0 {
			fmt.Fprintln(stderr, "--limit must be positive")
			return ExitUsage
		}

		rt, err := loadRuntime(*configPath, false, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}
		defer func() { _ = rt.logger.Sync() }()

		if rt.cfg.Audit.Path == "" {
			fmt.Fprintln(stderr, "History is disabled (audit.path is empty)")
			return ExitError
		}
		path := rt.resolve(rt.cfg.Audit.Path)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			fmt.Fprintln(stdout, "No attempts recorded yet")
			return ExitOK
		}

		ctx := context.Background()
		store, err := audit.Open(ctx, path)
		if err != nil {
			fmt.Fprintf(stderr, "History failed: %v\n", err)
			return ExitError
		}
		defer store.Close()
		rows, err := store.Recent(ctx, *limit)
		if err != nil {
			fmt.Fprintf(stderr, "History failed: %v\n", err)
			return ExitError
		}

		if *asJSON {
			if rows == nil {
				rows = []audit.Row{}
			}
			enc := json.NewEncoder(stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(rows); err != nil {
				fmt.Fprintf(stderr, "History failed: %v\n", err)
				return ExitError
			}
			return ExitOK
		}
		if len(rows) == 0 {
			fmt.Fprintln(stdout, "No attempts recorded yet")
			return ExitOK
		}
		for _, row := range rows {
			printAttempt(stdout, row)
		}
		return ExitOK
	}
}

func printAttempt(w io.Writer, row audit.Row) {
	fmt.Fprintf(w, "%s  %-8s %s  %s\n",
		row.FinishedAt.Local().Format("2006-01-02 15:04:05"),
		row.Outcome,
		row.QuestionID,
		truncate(row.QuestionText, 60),
	)
	if row.Reason != "" {
		fmt.Fprintf(w, "    %s: %s\n", row.Reason, firstLine(row.Detail))
	} else if len(row.ClaimedIDs) > 0 {
		fmt.Fprintf(w, "    chose %s\n", strings.Join(row.ClaimedIDs, ", "))
	} else if row.ClaimedText != "" {
		fmt.Fprintf(w, "    answered %q\n", truncate(row.ClaimedText, 60))
	}
}

func truncate(s string, limit int) string {
	runes := []rune(strings.Join(strings.Fields(s), " "))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit-3]) + "..."
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
