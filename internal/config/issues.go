package config

import (
	"fmt"
	"strings"
)

// Issue is one problem with one config field. Field is the dotted YAML
// path, such as "browser.allowed_hosts[0]".
type Issue struct {
	Field   string
	Message string
}

// ValidationError lists every issue found in a config.
type ValidationError struct {
	Issues []Issue
}

func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	var b strings.Builder
	for i, issue := range err.Issues {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s", issue.Field, issue.Message)
	}
	return b.String()
}

// issueAdder records an issue for a field relative to its section.
type issueAdder func(field, message string)

type issueCollector struct {
	issues []Issue
}

func (c *issueCollector) add(field, message string) {
	c.issues = append(c.issues, Issue{Field: field, Message: message})
}

// section returns an adder that prefixes fields with name.
func (c *issueCollector) section(name string) issueAdder {
	return func(field, message string) {
		c.add(name+"."+field, message)
	}
}

func (c *issueCollector) result() error {
	if len(c.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: c.issues}
}
