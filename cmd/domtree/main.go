// Package main is the entry point for the domtree CLI. It loads a
// document-tree snapshot, optionally applies a Lua transform, and
// renders the result as markup, statistics, or an interactive outline.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/domtree/internal/config"
	"github.com/dshills/domtree/internal/engine/document"
	"github.com/dshills/domtree/internal/engine/tree"
	"github.com/dshills/domtree/internal/plugin/luatree"
	"github.com/dshills/domtree/internal/render"
	"github.com/dshills/domtree/internal/snapshot"
	"github.com/dshills/domtree/internal/view"
	"github.com/dshills/domtree/internal/watcher"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath  string
	scriptPath  string
	stats       bool
	watch       bool
	interactive bool
	showVersion bool
	snapshotArg string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	if opts.showVersion {
		fmt.Printf("domtree %s (%s, built %s)\n", version, commit, date)
		return 0
	}
	if opts.snapshotArg == "" {
		fmt.Fprintln(os.Stderr, "Error: no snapshot file given")
		flag.Usage()
		return 2
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	doc, err := load(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if opts.interactive {
		o := view.New(doc.Tree(), opts.snapshotArg)
		if err := o.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	emit(doc, opts, cfg)

	if opts.watch {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(stop)
		return watchLoop(opts, cfg, stop)
	}
	return 0
}

func parseFlags() options {
	var opts options

	flag.StringVar(&opts.configPath, "config", "", "TOML config file")
	flag.StringVar(&opts.scriptPath, "script", "", "Lua transform to apply before output")
	flag.BoolVar(&opts.stats, "stats", false, "print document statistics instead of markup")
	flag.BoolVar(&opts.watch, "watch", false, "re-render whenever the snapshot file changes")
	flag.BoolVar(&opts.interactive, "view", false, "browse the tree in an interactive outline")
	flag.BoolVar(&opts.showVersion, "version", false, "print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: domtree [flags] <snapshot.json>\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() > 0 {
		opts.snapshotArg = flag.Arg(0)
	}
	return opts
}

// load reads the snapshot and applies the transform script, if any.
func load(opts options) (*document.Document, error) {
	data, err := os.ReadFile(opts.snapshotArg)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	t, meta, err := snapshot.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", opts.snapshotArg, err)
	}

	if opts.scriptPath != "" {
		if err := luatree.RunFile(t, opts.scriptPath); err != nil {
			return nil, err
		}
	}

	source := meta.Source
	if source == "" {
		source = opts.snapshotArg
	}
	return document.FromTree(t, document.WithSource(source)), nil
}

// emit writes the selected report for the document to stdout.
func emit(doc *document.Document, opts options, cfg config.Config) {
	if opts.stats {
		printStats(doc)
		return
	}

	ropts := []render.Option{}
	if cfg.Render.Compact {
		ropts = append(ropts, render.WithCompact())
	} else if cfg.Render.Indent != "" {
		ropts = append(ropts, render.WithIndent(cfg.Render.Indent))
	}
	if cfg.Render.MaxDepth > 0 {
		ropts = append(ropts, render.WithMaxDepth(cfg.Render.MaxDepth))
	}

	if err := render.Tree(os.Stdout, doc.Tree(), ropts...); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	if cfg.Render.Compact {
		fmt.Println()
	}
}

func printStats(doc *document.Document) {
	tags, data, maxDepth := 0, 0, 0
	doc.Tree().Each(func(n *tree.Node) bool {
		switch n.Kind() {
		case tree.KindTag:
			tags++
		case tree.KindData:
			data++
		}
		if d := len(doc.Tree().Ancestors(n.UID())); d > maxDepth {
			maxDepth = d
		}
		return true
	})

	fmt.Printf("document:  %s\n", doc.ID())
	fmt.Printf("source:    %s\n", doc.Source())
	fmt.Printf("nodes:     %d (%d tags, %d data)\n", doc.Len(), tags, data)
	fmt.Printf("max depth: %d\n", maxDepth)
}

// watchLoop re-renders the snapshot every time the file changes, until
// a stop signal arrives. Returning (rather than exiting) lets the
// deferred watcher shutdown run.
func watchLoop(opts options, cfg config.Config, stop <-chan os.Signal) int {
	w, err := watcher.New(opts.snapshotArg, cfg.Debounce())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer w.Close()

	for {
		select {
		case <-stop:
			return 0
		case <-w.Changes():
			doc, err := load(opts)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			emit(doc, opts, cfg)
		case err := <-w.Errors():
			fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)
		}
	}
}
