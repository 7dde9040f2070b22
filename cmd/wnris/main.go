// Command wnris imports a WordNet LMF SQLite database into a compact synonym
// index and answers synonym lookups against it.
//
// Usage:
//
//	wnris [-d database] [-v level] [-V] <command> [option ...] [arg ...]
//
// Commands:
//
//	import <lmf-db-file|url>   rebuild the index from an LMF database
//	lookup <lemma>             print the synonyms of a lemma
//	manifest                   print every indexed lemma
//	annotate                   print the synonyms of every word of a document
//	stats                      print index and cache statistics
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/japaniel/wnris/pkg/annotate"
	"github.com/japaniel/wnris/pkg/app"
	"github.com/japaniel/wnris/pkg/config"
	"github.com/japaniel/wnris/pkg/lmf"
	"github.com/japaniel/wnris/pkg/ris"
	"github.com/japaniel/wnris/pkg/store"

	"gopkg.in/yaml.v3"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// cli carries what every command needs.
type cli struct {
	cfg    *config.Config
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("wnris", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dbFlag := fs.String("d", "", "WordNet RIS database file (default from config)")
	fs.StringVar(dbFlag, "database", "", "alias for -d")
	verbose := fs.Int("v", 0, "level of displaying verbose messages")
	version := fs.Bool("V", false, "display program version information")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: wnris [option ...] <command> [option ...] [arg ...]")
		fmt.Fprintln(stderr, "Commands: import <lmf-db-file|url>, lookup <lemma>, manifest, annotate, stats")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	if *version {
		fmt.Fprintf(stderr, "wnris %s\n", app.Version)
		fmt.Fprintln(stderr, "WordNet reduced information set: synonym index and lookup")
		return 0
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "wnris: ERROR: missing command")
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "wnris: ERROR: %v\n", err)
		return 1
	}
	if *dbFlag != "" {
		cfg.Database.Path = *dbFlag
	}
	switch {
	case *verbose >= 2:
		cfg.Log.Level = "debug"
	case *verbose == 1:
		cfg.Log.Level = "info"
	}
	c := &cli{cfg: cfg, logger: app.NewLogger(cfg.Log), stdout: stdout, stderr: stderr}
	cmd, rest := fs.Arg(0), fs.Args()[1:]

	var cmdErr error
	switch cmd {
	case "import":
		cmdErr = c.importCmd(ctx, rest)
	case "lookup":
		cmdErr = c.lookupCmd(rest)
	case "manifest":
		cmdErr = c.manifestCmd()
	case "annotate":
		cmdErr = c.annotateCmd(ctx, rest)
	case "stats":
		cmdErr = c.statsCmd()
	default:
		fmt.Fprintf(stderr, "wnris: ERROR: unknown command %q\n", cmd)
		return 1
	}
	if cmdErr != nil {
		fmt.Fprintf(stderr, "wnris: %s: ERROR: %v\n", cmd, cmdErr)
		return 1
	}
	return 0
}

func (c *cli) service() (*ris.Service, error) {
	return ris.New(store.NewFile(c.cfg.Database.Path), ris.Options{
		CacheSize: c.cfg.Cache.Size,
		Logger:    c.logger,
	})
}

func (c *cli) importCmd(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: import <lmf-db-file|url>")
	}
	src := args[0]
	if lmf.IsRemote(src) {
		fmt.Fprintf(c.stdout, "Downloading %s...\n", src)
		path, err := lmf.Fetch(ctx, nil, src, "")
		if err != nil {
			return err
		}
		defer os.Remove(path)
		src = path
	}

	reader, err := lmf.Open(src)
	if err != nil {
		return err
	}
	defer reader.Close()

	svc, err := c.service()
	if err != nil {
		return err
	}
	if err := svc.Import(ctx, reader); err != nil {
		return err
	}
	st := svc.Stats()
	fmt.Fprintf(c.stdout, "Imported %d lemmas and %d synsets into %s\n", st.Lemmas, st.Synsets, c.cfg.Database.Path)
	return nil
}

func (c *cli) lookupCmd(args []string) error {
	fs := flag.NewFlagSet("lookup", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	format := fs.String("f", "yaml", "output format (json or yaml)")
	output := fs.String("o", "-", "output file")
	nocase := fs.Bool("i", false, "case-insensitive lemma matching")
	nocache := fs.Bool("nocache", false, "bypass the lookup cache")
	if err := fs.Parse(args); err != nil {
		return err
	}
	// allow options after the lemma as well
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: lookup [option ...] <lemma>")
	}
	lemma := fs.Arg(0)
	if err := fs.Parse(fs.Args()[1:]); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments %q", fs.Args())
	}

	svc, err := c.service()
	if err != nil {
		return err
	}
	result, ok := svc.Lookup(lemma, ris.LookupOptions{CaseInsensitive: *nocase, SkipCache: *nocache})
	if !ok {
		return fmt.Errorf("lemma %q not found", lemma)
	}
	data, err := encode(*format, result)
	if err != nil {
		return err
	}
	return c.write(*output, data)
}

func (c *cli) manifestCmd() error {
	svc, err := c.service()
	if err != nil {
		return err
	}
	for _, lemma := range svc.Manifest() {
		fmt.Fprintln(c.stdout, lemma)
	}
	return nil
}

func (c *cli) annotateCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("annotate", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	urlFlag := fs.String("url", "", "HTML page to fetch and annotate")
	fileFlag := fs.String("file", "", "file to annotate (.html/.htm files are run through readability)")
	textFlag := fs.String("text", "", "text to annotate")
	format := fs.String("f", "text", "output format (text, json or yaml)")
	nocase := fs.Bool("i", true, "case-insensitive lemma matching")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var text string
	switch {
	case *urlFlag != "":
		art, err := annotate.FetchArticle(ctx, nil, *urlFlag)
		if err != nil {
			return err
		}
		text = art.Text
	case *fileFlag != "":
		raw, err := os.ReadFile(*fileFlag)
		if err != nil {
			return err
		}
		text = string(raw)
		if isHTML(*fileFlag) {
			art, err := annotate.ExtractArticle(raw, nil)
			if err != nil {
				return err
			}
			text = art.Text
		}
	case *textFlag != "":
		text = *textFlag
	default:
		return fmt.Errorf("one of -url, -file or -text is required")
	}

	svc, err := c.service()
	if err != nil {
		return err
	}
	analyzer, err := annotate.NewAnalyzer()
	if err != nil {
		return fmt.Errorf("create analyzer: %w", err)
	}
	an := annotate.NewAnnotator(analyzer, svc)
	an.Workers = c.cfg.Annotate.Workers
	an.Options = ris.LookupOptions{CaseInsensitive: *nocase}

	annotations, err := an.Annotate(ctx, text)
	if err != nil {
		return err
	}
	if *format != "text" {
		data, err := encode(*format, annotations)
		if err != nil {
			return err
		}
		_, err = c.stdout.Write(data)
		return err
	}
	for _, a := range annotations {
		if len(a.Words) == 0 {
			continue
		}
		fmt.Fprintln(c.stdout, a.Sentence)
		for _, w := range a.Words {
			fmt.Fprintf(c.stdout, "    %s (%s): %v\n", w.Lemma, w.POS, w.Synonyms)
		}
	}
	return nil
}

func (c *cli) statsCmd() error {
	svc, err := c.service()
	if err != nil {
		return err
	}
	data, err := encode("json", svc.Stats())
	if err != nil {
		return err
	}
	_, err = c.stdout.Write(data)
	return err
}

func (c *cli) write(output string, data []byte) error {
	if output == "-" {
		_, err := c.stdout.Write(data)
		return err
	}
	return os.WriteFile(output, data, 0644)
}

func encode(format string, v any) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(v, "", "    ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "yaml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(4)
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

func isHTML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}
