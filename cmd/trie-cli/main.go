// Command trie-cli sends actions to a running trie-server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/kumarlokesh/trie-server/internal/client"
)

func main() {
	var server string
	flag.StringVar(&server, "server", client.DefaultServer, "trie server address")
	flag.StringVar(&server, "s", client.DefaultServer, "shorthand for -server")
	flag.Usage = func() {
		printUsage(flag.CommandLine.Output())
		fmt.Fprintf(flag.CommandLine.Output(), "\nGlobal flags:\n")
		flag.PrintDefaults()
	}
	args, err := parseArgs(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	_, noColor := os.LookupEnv("NO_COLOR")
	p := &printer{
		out:   os.Stdout,
		err:   os.Stderr,
		color: !noColor && term.IsTerminal(int(os.Stdout.Fd())),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ok := execute(ctx, client.New(server, nil), args, p)
	if !ok {
		os.Exit(1)
	}
}
