package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"rainpath-cases/internal/service"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cases, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cases, err := a.client.ListCases(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, cases)
			}
			if len(cases) == 0 {
				fmt.Fprintln(out, "No cases yet")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tIDENTIFIER\tSPECIMENS\tBLOCKS\tSLIDES\tCREATED")
			for _, c := range cases {
				blocks, slides := countChildren(c)
				fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%s\n", c.ID, c.Identifier, len(c.Specimens), blocks, slides, c.CreatedAt)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw JSON list")
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one case with its full hierarchy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCaseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.client.GetCase(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), c)
		},
	}
}

func newCreateCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "create -f <case.json>",
		Short: "Create a case from a JSON document (\"-\" reads stdin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}
			var req service.CreateCaseRequest
			if err := json.Unmarshal(data, &req); err != nil {
				return fmt.Errorf("parse %s: %w", file, err)
			}

			created, err := a.client.CreateCase(cmd.Context(), &req)
			if err != nil {
				return err
			}
			blocks, slides := countChildren(*created)
			fmt.Fprintf(cmd.OutOrStdout(), "Created case %d (%s): %d specimens, %d blocks, %d slides\n",
				created.ID, created.Identifier, len(created.Specimens), blocks, slides)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "case JSON file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a case and everything under it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCaseID(args[0])
			if err != nil {
				return err
			}
			if err := a.client.DeleteCase(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted case %d\n", id)
			return nil
		},
	}
}

func countChildren(c service.CaseResponse) (blocks, slides int) {
	for _, sp := range c.Specimens {
		blocks += len(sp.Blocks)
		for _, b := range sp.Blocks {
			slides += len(b.Slides)
		}
	}
	return blocks, slides
}
