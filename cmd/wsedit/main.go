// Package main is the wsedit command: it applies an LSP workspace edit,
// read as JSON from a file or stdin, to the files it names.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dshills/wsedit/internal/config"
	"github.com/dshills/wsedit/internal/engine/buffer"
	"github.com/dshills/wsedit/internal/lsp"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

type options struct {
	editPath   string
	configPath string
	save       bool
	verbose    bool
	version    bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	if opts.version {
		fmt.Printf("wsedit %s (%s)\n", version, commit)
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	edit, err := readEdit(opts.editPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	var bufferOpts []buffer.Option
	if cfg.String("editor.lineEnding", "lf") == "crlf" {
		bufferOpts = append(bufferOpts, buffer.WithCRLF())
	}

	workspace := lsp.NewWorkspace(lsp.WithBufferOptions(bufferOpts...))
	notifier := lsp.NotifierFunc(func(title, message string) {
		fmt.Fprintf(os.Stderr, "%s: %s\n", title, message)
	})
	coordinator := lsp.NewCoordinator(workspace, lsp.WithNotifier(notifier))

	result, err := coordinator.ApplyWorkspaceEdit(context.Background(), *edit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if !result.Applied {
		return 1
	}

	if opts.save || cfg.Bool("apply.saveOnApply", true) {
		if err := workspace.SaveModified(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	if opts.verbose || cfg.Bool("notify.verbose", false) {
		for _, path := range result.ModifiedFiles {
			fmt.Println(path)
		}
	}
	fmt.Printf("applied: %d file(s)\n", len(result.ModifiedFiles))
	return 0
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.editPath, "edit", "-", "workspace edit JSON file, or - for stdin")
	flag.StringVar(&opts.configPath, "config", defaultConfigPath(), "settings file")
	flag.BoolVar(&opts.save, "save", false, "save modified buffers to disk")
	flag.BoolVar(&opts.verbose, "verbose", false, "list modified files")
	flag.BoolVar(&opts.version, "version", false, "print version and exit")
	flag.Parse()
	return opts
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".wsedit.json"
	}
	return filepath.Join(dir, "wsedit", "config.json")
}

// readEdit decodes a workspace edit, accepting either a bare
// WorkspaceEdit or full workspace/applyEdit params.
func readEdit(path string) (*lsp.WorkspaceEdit, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading edit: %w", err)
	}

	var params lsp.ApplyWorkspaceEditParams
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("decoding edit: %w", err)
	}
	if len(params.Edit.Changes) > 0 || len(params.Edit.DocumentChanges) > 0 {
		return &params.Edit, nil
	}

	var edit lsp.WorkspaceEdit
	if err := json.Unmarshal(data, &edit); err != nil {
		return nil, fmt.Errorf("decoding edit: %w", err)
	}
	return &edit, nil
}
