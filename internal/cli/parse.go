package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"

	"quizpilot/internal/question"
	"quizpilot/internal/solver"
)

type parseOutput struct {
	Adapter   string              `json:"adapter"`
	Title     string              `json:"title,omitempty"`
	Questions []question.Question `json:"questions"`
}

// runParse builds the handler for the parse command.
func runParse(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file")
		pageURL := flags.String("url", "", "Address the snapshot was taken from")
		asJSON := flags.Bool("json", false, "Print questions as JSON")
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
			fmt.Fprintf(stderr, "Parse failed: %v\n", err)
			return ExitError
		}
		out := parseOutput{Questions: []question.Question{}}
		if adapter != nil {
			var questions []question.Question
			out.Adapter = adapter.Name()
			out.Title, questions = solver.Inventory(doc, adapter)
			if questions != nil {
				out.Questions = questions
			}
		}

		if *asJSON {
			encoder := json.NewEncoder(stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(out); err != nil {
				fmt.Fprintf(stderr, "Parse failed: %v\n", err)
				return ExitError
			}
			return ExitOK
		}
		if adapter == nil {
			fmt.Fprintln(stdout, "No supported quiz detected")
			return ExitOK
		}
		printQuestions(stdout, out)
		return ExitOK
	}
}

func printQuestions(w io.Writer, out parseOutput) {
	title := out.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(w, "%s [%s] %d question(s)\n", title, out.Adapter, len(out.Questions))
	for i, q := range out.Questions {
		fmt.Fprintf(w, "\nQ%d %s (%s)\n", i+1, q.ID, q.Type)
		if text := strings.TrimSpace(q.Text); text != "" {
			fmt.Fprintf(w, "  %s\n", text)
		}
		for j, choice := range q.Choices {
			fmt.Fprintf(w, "  [%s] %s: %s\n", question.DeriveChoiceLetter(j), choice.ID, choice.Label)
		}
	}
}
