package main

import (
	"fmt"
	"time"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/client"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/client/fixtures"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var auditCmd = &cobra.Command{
	Use:     "audit",
	Short:   "List the activity log, newest first",
	GroupID: "site",
	PreRunE: requireLogin,
	RunE: func(cmd *cobra.Command, args []string) error {
		var q client.AuditQuery
		q.Action, _ = cmd.Flags().GetString("action")
		q.User, _ = cmd.Flags().GetString("user")
		q.Start, _ = cmd.Flags().GetString("since")
		q.End, _ = cmd.Flags().GetString("until")
		q.Limit, _ = cmd.Flags().GetInt("limit")
		q.Page, _ = cmd.Flags().GetInt("page")

		page, err := api.AuditLogs(cmd.Context(), q)
		if fixtures.Enabled && (err != nil || len(page.Items) == 0) {
			logger.Debug("showing activity fixtures", zap.Error(err))
			warn("showing development fixtures")
			items := fixtures.ActivityLogs(time.Now())
			page, err = client.AuditPage{Items: items, Total: int64(len(items)), Limit: int64(len(items)), Page: 1}, nil
		}
		if err != nil {
			return printFieldErrors(err)
		}
		if jsonOutput {
			return printJSON(page)
		}
		w := newTable("TIME", "USER", "ACTION", "TARGET", "OK", "DETAILS")
		for _, e := range page.Items {
			ok := "yes"
			if !e.Success {
				ok = highlight("no")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				formatTime(e.Timestamp), e.User, e.Action, e.Target, ok, truncate(e.Details, 50))
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("\n%d of %d entries (page %d)\n", len(page.Items), page.Total, page.Page)
		return nil
	},
}

func init() {
	auditCmd.Flags().String("action", "", "filter by action (create, update, delete, login, system)")
	auditCmd.Flags().String("user", "", "filter by user email")
	auditCmd.Flags().String("since", "", "first day, YYYY-MM-DD")
	auditCmd.Flags().String("until", "", "last day, YYYY-MM-DD")
	auditCmd.Flags().Int("limit", 50, "entries per page")
	auditCmd.Flags().Int("page", 1, "page number")
}
