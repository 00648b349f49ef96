package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"grantforge/internal/jsonrepair"
	"grantforge/internal/outline"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "grantctl",
		Short:         "Inspection utilities for the proposal pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRepairCmd(), newOutlineCmd())
	return root
}

func newRepairCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repair [file]",
		Short: "Recover JSON from a raw model output dump",
		Long: `Runs the extraction and repair chain over a raw provider response
(file argument or stdin) and prints the recovered JSON.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			var err error
			if len(args) == 1 {
				raw, err = os.ReadFile(args[0])
			} else {
				raw, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}
			msg, err := jsonrepair.Extract(string(raw))
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := json.Indent(&buf, msg, "", "  "); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), buf.String())
			return nil
		},
	}
}

func newOutlineCmd() *cobra.Command {
	var templatePath, templateID string
	cmd := &cobra.Command{
		Use:   "outline",
		Short: "Resolve a section template into a flat outline",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var template []outline.TemplateNode
			if templatePath != "" {
				catalog, err := outline.LoadCatalog(templatePath)
				if err != nil {
					return err
				}
				template = catalog.Get(templateID)
				if template == nil && templateID != "" {
					return fmt.Errorf("template %q not found (have %v)", templateID, catalog.IDs())
				}
			}
			for _, e := range outline.Resolve(template, nil) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s  (%s)\n", strings.Repeat("  ", e.Depth), e.Key, e.Label)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&templatePath, "file", "f", "", "template catalog yaml")
	cmd.Flags().StringVarP(&templateID, "template", "t", "", "template id within the catalog")
	return cmd
}
