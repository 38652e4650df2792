package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xcs-lang/xcsc/internal/hostsyntax/backend/scanner"
	"github.com/xcs-lang/xcsc/internal/ideserver"
	"github.com/xcs-lang/xcsc/internal/selftest"
)

const (
	exitOK       = 0
	exitInternal = 1
)

type cliOptions struct {
	lsp       bool
	workspace string
	dev       bool
}

// run implements the CLI surface: --lsp switches execution mode to
// language-server, --workspace <path> supplies the project root and must
// exist, --dev runs the in-memory self-test. Exit code 0 on success;
// non-zero on an invalid workspace at startup.
func run(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, args []string) int {
	opts, usage, err := parseArgs(args)
	if err != nil {
		writef(stderr, "xcsc: %v\n\n%s", err, usage)
		return exitInternal
	}

	if opts.workspace != "" {
		if st, statErr := os.Stat(opts.workspace); statErr != nil || !st.IsDir() {
			writef(stderr, "xcsc: workspace %q does not exist or is not a directory\n", opts.workspace)
			return exitInternal
		}
	}

	if opts.dev {
		return runSelfTest(ctx, stdout, stderr)
	}
	if opts.lsp {
		return runLSP(ctx, stdin, stdout, stderr, opts)
	}

	writef(stderr, "xcsc: one of --lsp or --dev is required\n\n%s", usage)
	return exitInternal
}

func runSelfTest(ctx context.Context, stdout, stderr io.Writer) int {
	cases := selftest.Run(ctx)
	for _, c := range cases {
		status := "ok"
		if !c.Passed {
			status = "FAIL"
		}
		writef(stdout, "[%s] %s", status, c.Name)
		if c.Detail != "" {
			writef(stdout, ": %s", c.Detail)
		}
		writeln(stdout)
	}
	if !selftest.AllPassed(cases) {
		writef(stderr, "xcsc: self-test failed\n")
		return exitInternal
	}
	return exitOK
}

func runLSP(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, opts cliOptions) int {
	root := opts.workspace
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			writef(stderr, "xcsc: %v\n", err)
			return exitInternal
		}
		root = wd
	}
	server := ideserver.NewServer(root, scanner.NewFactory())
	if err := server.Run(ctx, stdin, stdout); err != nil {
		writef(stderr, "xcsc: %v\n", err)
		return exitInternal
	}
	return exitOK
}

func parseArgs(args []string) (cliOptions, string, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("xcsc", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.BoolVar(&opts.lsp, "lsp", false, "run as a language server over stdio")
	fs.StringVar(&opts.workspace, "workspace", "", "project root path (must exist)")
	fs.BoolVar(&opts.dev, "dev", false, "run the in-memory self-test and exit")

	usage := cliUsage(fs)
	if err := fs.Parse(args); err != nil {
		return cliOptions{}, usage, err
	}
	if opts.lsp && opts.dev {
		return cliOptions{}, usage, fmt.Errorf("--lsp and --dev may not be used together")
	}
	return opts, usage, nil
}

func cliUsage(fs *flag.FlagSet) string {
	var b strings.Builder
	b.WriteString("Usage:\n")
	b.WriteString("  xcsc --lsp [--workspace path/to/project]\n")
	b.WriteString("  xcsc --dev\n\n")
	b.WriteString("Flags:\n")
	fs.VisitAll(func(f *flag.Flag) {
		writef(&b, "  --%s\t%s\n", f.Name, f.Usage)
	})
	return b.String()
}

func writef(w io.Writer, format string, args ...any) {
	_, _ = io.WriteString(w, fmt.Sprintf(format, args...))
}

func writeln(w io.Writer, args ...any) {
	_, _ = fmt.Fprintln(w, args...)
}
