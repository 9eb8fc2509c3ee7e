package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/kumarlokesh/trie-server/internal/api"
	"github.com/kumarlokesh/trie-server/internal/client"
)

const (
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

// printer writes status lines, colored when attached to a terminal
type printer struct {
	out   io.Writer
	err   io.Writer
	color bool
}

func (p *printer) paint(code, msg string) string {
	if !p.color {
		return msg
	}
	return code + msg + ansiReset
}

func (p *printer) info(format string, args ...interface{}) {
	fmt.Fprintln(p.out, p.paint(ansiGreen, fmt.Sprintf(format, args...)))
}

func (p *printer) plain(msg string) {
	fmt.Fprintln(p.out, msg)
}

func (p *printer) fail(format string, args ...interface{}) {
	fmt.Fprintln(p.err, p.paint(ansiRed, fmt.Sprintf(format, args...)))
}

// Command represents a CLI command
type Command struct {
	Name        string
	Usage       string
	Description string
	MinArgs     int
	MaxArgs     int
	// Build turns the command's arguments into a server request
	Build func(p *printer, args []string) api.Request
	// Render formats a successful response; nil prints it unchanged
	Render func(body string) string
}

// Available commands
var commands = []Command{
	{
		Name:        "add",
		Usage:       "add <key>",
		Description: "Add a key to the trie",
		MinArgs:     1,
		MaxArgs:     1,
		Build: func(p *printer, args []string) api.Request {
			p.info("Adding %s...", args[0])
			return api.Request{Action: "add", Key: args[0]}
		},
	},
	{
		Name:        "remove",
		Usage:       "remove <key>",
		Description: "Remove a key from the trie",
		MinArgs:     1,
		MaxArgs:     1,
		Build: func(p *printer, args []string) api.Request {
			p.info("Removing %s...", args[0])
			return api.Request{Action: "remove", Key: args[0]}
		},
	},
	{
		Name:        "find",
		Usage:       "find <key>",
		Description: "Check whether a key is in the trie",
		MinArgs:     1,
		MaxArgs:     1,
		Build: func(p *printer, args []string) api.Request {
			p.info("Searching for %s...", args[0])
			return api.Request{Action: "find", Key: args[0]}
		},
		Render: func(body string) string {
			if body == "true" {
				return "Found!"
			}
			return "Not found."
		},
	},
	{
		Name:        "complete",
		Usage:       "complete <prefix> [count]",
		Description: "List completions for a prefix",
		MinArgs:     1,
		MaxArgs:     2,
		Build: func(p *printer, args []string) api.Request {
			p.info("Getting completions for %s...", args[0])
			req := api.Request{Action: "complete", Prefix: args[0]}
			if len(args) > 1 {
				req.Count = args[1]
			}
			return req
		},
	},
	{
		Name:        "show",
		Usage:       "show",
		Description: "Print the structure of the trie",
		Build: func(p *printer, args []string) api.Request {
			p.info("Showing...")
			return api.Request{Action: "show"}
		},
	},
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage: trie-cli <command> [arguments] [-s SERVER]\n")
	fmt.Fprintf(w, "\nAvailable commands:\n")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-27s %s\n", cmd.Usage, cmd.Description)
	}
	fmt.Fprintf(w, "  %-27s %s\n", "help", "Show this message")
}

// parseArgs parses flags wherever they appear in args and returns the
// positional arguments in order. Everything after a "--" is positional.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if n := len(args) - len(rest); n > 0 && args[n-1] == "--" {
			return append(positional, rest...), nil
		}
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func findCommand(name string) *Command {
	for i := range commands {
		if commands[i].Name == name {
			return &commands[i]
		}
	}
	return nil
}

// execute runs one CLI invocation and reports whether it succeeded
func execute(ctx context.Context, c *client.Client, args []string, p *printer) bool {
	if len(args) == 0 {
		p.fail("Invalid usage. Use 'trie-cli help' for more info.")
		return false
	}

	name := strings.ToLower(args[0])
	if name == "help" {
		printUsage(p.out)
		return true
	}

	cmd := findCommand(name)
	if cmd == nil {
		p.fail("Invalid usage. Use 'trie-cli help' for more info.")
		return false
	}

	cmdArgs := args[1:]
	if len(cmdArgs) < cmd.MinArgs || len(cmdArgs) > cmd.MaxArgs {
		p.fail("Invalid usage: trie-cli %s", cmd.Usage)
		return false
	}

	body, err := c.Do(ctx, cmd.Build(p, cmdArgs))
	if err != nil {
		var respErr *client.ResponseError
		if errors.As(err, &respErr) {
			p.fail("%s", respErr.Body)
		} else {
			p.fail("%v", err)
		}
		p.fail("Request failed!")
		return false
	}

	if cmd.Render != nil {
		body = cmd.Render(body)
	}
	if body != "" {
		p.plain(body)
	}
	p.info("Done!")
	return true
}
