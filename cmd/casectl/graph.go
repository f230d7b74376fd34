package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"rainpath-cases/internal/service"

	"github.com/spf13/cobra"
)

func newGraphCmd(a *app) *cobra.Command {
	var svgPath string
	cmd := &cobra.Command{
		Use:   "graph <id>",
		Short: "Print the case tree layout, or save it as SVG with --svg",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCaseID(args[0])
			if err != nil {
				return err
			}
			if svgPath == "" {
				g, err := a.client.CaseGraph(cmd.Context(), id)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), g)
			}

			svg, err := a.client.CaseGraphSVG(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := os.WriteFile(svgPath, svg, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", svgPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", svgPath, len(svg))
			return nil
		},
	}
	cmd.Flags().StringVar(&svgPath, "svg", "", "write the rendered SVG to this file")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download every case as an Excel workbook, one row per slide",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = fmt.Sprintf("cases_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
			}
			data, err := a.client.ExportCases(cmd.Context())
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", output, len(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default cases_<timestamp>.xlsx)")
	return cmd
}

func newDraftCmd(a *app) *cobra.Command {
	var key string
	draftKey := func() string {
		if key != "" {
			return key
		}
		return a.cfg.GetString(cfgKeyDraft)
	}

	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Inspect or manage the saved case-creation draft",
	}
	cmd.PersistentFlags().StringVar(&key, "key", "", "draft name (default: draft_key from config)")

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the saved draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := a.client.ReadDraft(cmd.Context(), draftKey())
			if err != nil {
				return err
			}
			if draft == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No draft saved")
				return nil
			}
			return printJSON(cmd.OutOrStdout(), draft)
		},
	}

	var file string
	save := &cobra.Command{
		Use:   "save -f <draft.json>",
		Short: "Replace the saved draft (\"-\" reads stdin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}
			var draft service.CreateCaseRequest
			if err := json.Unmarshal(data, &draft); err != nil {
				return fmt.Errorf("parse %s: %w", file, err)
			}
			if err := a.client.SaveDraft(cmd.Context(), draftKey(), &draft); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Draft saved")
			return nil
		},
	}
	save.Flags().StringVarP(&file, "file", "f", "", "draft JSON file")
	_ = save.MarkFlagRequired("file")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Discard the saved draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.ClearDraft(cmd.Context(), draftKey()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Draft cleared")
			return nil
		},
	}

	cmd.AddCommand(show, save, clearCmd)
	return cmd
}
