package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
	"github.com/spf13/cobra"
)

var pageCmd = &cobra.Command{
	Use:     "page",
	Short:   "Show or edit page content sections",
	GroupID: "content",
}

var pageShowCmd = &cobra.Command{
	Use:   "show <page>",
	Short: "Print every section of a page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sections, err := api.PageContent(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(sections)
		}
		names := make([]string, 0, len(sections))
		for n := range sections {
			names = append(names, n)
		}
		sort.Strings(names)
		w := newTable("SECTION", "KIND", "REV", "CONTENT")
		for _, n := range names {
			pc := sections[n]
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", n, pc.Content.Kind, pc.Revision, truncate(pc.Content.AsString(), 60))
		}
		return w.Flush()
	},
}

var pageSetCmd = &cobra.Command{
	Use:     "set <page> <section> <content>",
	Short:   "Store a section; --object treats content as a JSON object",
	Args:    cobra.ExactArgs(3),
	PreRunE: requireLogin,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("object")
		rev, _ := cmd.Flags().GetInt64("revision")

		v := models.StringValue(args[2])
		if asJSON {
			var o map[string]any
			if err := json.Unmarshal([]byte(args[2]), &o); err != nil {
				return fmt.Errorf("content is not a JSON object: %w", err)
			}
			v = models.ObjectValue(o)
		}
		pc, err := api.PutPageContent(cmd.Context(), args[0], args[1], v, rev)
		if err != nil {
			return printFieldErrors(err)
		}
		fmt.Printf("Saved %s/%s (revision %d)\n", pc.Page, pc.Section, pc.Revision)
		return nil
	},
}

func init() {
	pageSetCmd.Flags().Bool("object", false, "content is a JSON object")
	pageSetCmd.Flags().Int64("revision", 0, "current revision (0 writes unconditionally)")
	pageCmd.AddCommand(pageShowCmd, pageSetCmd)
}
