package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bpclang/bpc/language"
	"github.com/bpclang/bpc/xmlout"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func newCompileCmd() *cobra.Command {
	var output string
	var watch bool

	cmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "Compile a .blp file to GtkBuilder XML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if !watch {
				return compileOnce(input, output)
			}
			return watchAndCompile(input, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&watch, "watch", false, "recompile whenever the input changes")

	return cmd
}

func compileOnce(input, output string) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	result := language.Analyze(data, nil)
	printDiagnostics(input, result.Errors)
	printDiagnostics(input, result.Warnings)
	if len(result.Errors) > 0 {
		return fmt.Errorf("%d error(s)", len(result.Errors))
	}

	xml, err := xmlout.Emit(result.Root)
	if err != nil {
		return err
	}

	if output == "" {
		_, err = os.Stdout.Write(xml)
		return err
	}
	return os.WriteFile(output, xml, 0o644)
}

func watchAndCompile(input, output string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file on save,
	// which would drop a watch on the file itself.
	if err := watcher.Add(filepath.Dir(input)); err != nil {
		return fmt.Errorf("watch %s: %w", input, err)
	}

	if err := compileOnce(input, output); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	target := filepath.Clean(input)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := compileOnce(input, output); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, err)
		}
	}
}
