package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/aditor/internal/app"
)

func newShowCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <doc>",
		Short: "Print the node tree with positions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, doc, err := opts.open(args[0])
			if err != nil {
				return err
			}
			defer application.Shutdown()

			return application.Outline(doc, cmd.OutOrStdout())
		},
	}
}

func newExportCmd(opts *globalOptions) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export <doc>",
		Short: "Convert a document to html, text, json, yaml or toml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, doc, err := opts.open(args[0])
			if err != nil {
				return err
			}
			defer application.Shutdown()

			var buf bytes.Buffer
			if err := application.Export(doc, format, &buf); err != nil {
				return err
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			return os.WriteFile(out, buf.Bytes(), 0o644)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "html", "output format: "+app.ExportFormats())
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to file instead of stdout")
	return cmd
}

func newRunCmd(opts *globalOptions) *cobra.Command {
	var out string
	var write, stats bool
	cmd := &cobra.Command{
		Use:   "run <doc> <script.lua>",
		Short: "Run a Lua edit script against a document",
		Long: "Run a Lua edit script against a document. The script drives the doc table:\n" +
			"select, selection, insert, replace, backspace, delete, enter, paste, text, record, revision.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out != "" && write {
				return fmt.Errorf("--out and --write are mutually exclusive")
			}
			opts.metrics = stats
			application, doc, err := opts.open(args[0])
			if err != nil {
				return err
			}
			defer application.Shutdown()

			if err := application.RunScript(cmd.Context(), doc, args[1], cmd.OutOrStdout()); err != nil {
				return err
			}
			if stats {
				if err := application.Stats(doc, cmd.ErrOrStderr()); err != nil {
					return err
				}
			}
			switch {
			case out != "":
				return application.Save(doc, out)
			case write:
				return application.Save(doc, "")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "save the edited document to this file")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "save the edited document in place")
	cmd.Flags().BoolVar(&stats, "stats", false, "print dispatch statistics to stderr after the script")
	return cmd
}

func newWatchCmd(opts *globalOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "watch <doc>",
		Short: "Print a document and print it again whenever the file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, doc, err := opts.open(args[0])
			if err != nil {
				return err
			}
			defer application.Shutdown()

			w := cmd.OutOrStdout()
			if err := application.Export(doc, format, w); err != nil {
				return err
			}
			err = application.Watch(doc, func(d *app.Document, err error) {
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "reload: %v\n", err)
					return
				}
				fmt.Fprintf(w, "--- %s reloaded at %s\n", d.Name, time.Now().Format(time.TimeOnly))
				if err := application.Export(d, format, w); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "export: %v\n", err)
				}
			})
			if err != nil {
				return err
			}

			<-cmd.Context().Done()
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: "+app.ExportFormats())
	return cmd
}

func newValidateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <doc>",
		Short: "Check position invariants and nesting rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, doc, err := opts.open(args[0])
			if err != nil {
				return err
			}
			defer application.Shutdown()

			err = application.Validate(doc)
			if err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", doc.Name)
				return nil
			}
			var list *app.ErrorList
			if errors.As(err, &list) {
				for _, v := range list.Errors() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", doc.Name, v)
				}
			}
			return err
		},
	}
}
