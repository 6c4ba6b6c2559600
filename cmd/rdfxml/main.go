package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: rdfxml <command> [args]")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  parse [-base IRI] [-type ct] [-typed] <file|->    - Print a document as N-Triples")
	fmt.Fprintln(w, "  load [-config file] [-metrics file] <files...>   - Parse documents into the store")
	fmt.Fprintln(w, "  count [-config file]                             - Print the number of stored triples")
	fmt.Fprintln(w, "  dump [-config file] [-s term] [-p term] [-o term] - Print stored triples as N-Triples")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}

	var err error
	switch args[0] {
	case "parse":
		err = runParse(args[1:], stdin, stdout, stderr)
	case "load":
		err = runLoad(ctx, args[1:], stdout, stderr)
	case "count":
		err = runCount(args[1:], stdout, stderr)
	case "dump":
		err = runDump(ctx, args[1:], stdout, stderr)
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", args[0])
		usage(stderr)
		return 2
	}

	if err != nil {
		fmt.Fprintf(stderr, "rdfxml %s: %v\n", args[0], err)
		return 1
	}
	return 0
}
