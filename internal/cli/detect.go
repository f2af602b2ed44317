package cli

import (
	"flag"
	"fmt"
	"io"
)

// runDetect builds the handler for the detect command. It exits with
// ExitError when no adapter recognizes the page so scripts can branch.
func runDetect(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file")
		pageURL := flags.String("url", "", "Address the snapshot was taken from")
		if code, ok := parseFlags(cmd, flags, args, stderr); !ok {
			return code
		}
		path, err := snapshotArg(flags.Args())
		if err != nil {
			fmt.Fprintln(stderr, err)
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		rt, err := loadRuntime(*configPath, false, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}
		defer func() { _ = rt.logger.Sync() }()

		doc, adapter, err := detectPage(rt, path, *pageURL)
		if err != nil {
			fmt.Fprintf(stderr, "Detect failed: %v\n", err)
			return ExitError
		}
		if adapter == nil {
			fmt.Fprintln(stdout, "No supported quiz detected")
			return ExitError
		}
		var title string
		doc.Do(func() { title = adapter.QuizTitle(doc) })
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(stdout, "%s: %s\n", adapter.Name(), title)
		return ExitOK
	}
}
