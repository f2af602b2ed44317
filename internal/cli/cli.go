package cli

import (
	"fmt"
	"io"
)

const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

type Command struct {
	Name    string
	Summary string
	Usage   []string
	Run     func(args []string, stdout, stderr io.Writer) int
}

func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stdout)
		return ExitUsage
	}
	if isHelpArg(args[0]) {
		printUsage(stdout)
		return ExitOK
	}

	cmd := findCommand(args[0])
	if cmd == nil {
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return ExitUsage
	}

	return cmd.Run(args[1:], stdout, stderr)
}

func findCommand(name string) *Command {
	for _, cmd := range commands {
		if cmd.Name == name {
			return cmd
		}
	}
	return nil
}

func isHelpArg(arg string) bool {
	switch arg {
	case "-h", "--help", "help":
		return true
	default:
		return false
	}
}

func wantsHelp(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "-h", "--help":
			return true
		}
	}
	return false
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  quizpilot <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-9s %s\n", cmd.Name, cmd.Summary)
	}
	fmt.Fprintln(w, "\nUse \"quizpilot <command> --help\" for more information.")
}

func printCommandUsage(cmd *Command, w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	for _, line := range cmd.Usage {
		fmt.Fprintf(w, "  %s\n", line)
	}
	if cmd.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", cmd.Summary)
	}
}

func command(name, summary string, usage []string, runner func(cmd *Command) func(args []string, stdout, stderr io.Writer) int) *Command {
	cmd := &Command{
		Name:    name,
		Summary: summary,
		Usage:   usage,
	}
	cmd.Run = runner(cmd)
	return cmd
}

var commands = []*Command{
	command("init", "Scaffold .quizpilot/config.yml", []string{
		"quizpilot init [--config <path>] [--no-gitignore]",
	}, runInit),
	command("validate", "Validate .quizpilot/config.yml", []string{
		"quizpilot validate [--config <path>]",
	}, runValidate),
	command("detect", "Report which quiz platform a page belongs to", []string{
		"quizpilot detect --url <page-url> <snapshot.html>",
	}, runDetect),
	command("parse", "List the questions found on a page", []string{
		"quizpilot parse --url <page-url> [--json] <snapshot.html>",
	}, runParse),
	command("solve", "Request answers and apply them to a page", []string{
		"quizpilot solve --url <page-url> [--out <file>] [--answers <key.yml>] [--only <id>]... <snapshot.html>",
		"quizpilot solve --live <page-url> [--ui auto|live|plain] [--out <file>]",
	}, runSolve),
	command("serve", "Serve the detect/parse/apply HTTP API", []string{
		"quizpilot serve [--addr <host:port>]",
	}, runServe),
	command("history", "Show recorded solve attempts", []string{
		"quizpilot history [--limit <n>] [--json]",
	}, runHistory),
}
