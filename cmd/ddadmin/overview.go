package main

import (
	"fmt"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/client"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// overview is the dashboard summary.
type overview struct {
	Counts       map[string]int       `json:"counts"`
	Inbox        map[string]int64     `json:"inbox"`
	Settings     models.SiteSettings  `json:"settings"`
	RecentEvents []models.ActivityLog `json:"recent_activity"`
}

var overviewCmd = &cobra.Command{
	Use:     "overview",
	Short:   "Summarise content, inbox and recent activity",
	GroupID: "site",
	PreRunE: requireLogin,
	RunE: func(cmd *cobra.Command, args []string) error {
		resources := []string{client.ResourceServices, client.ResourceFAQs, client.ResourceTestimonials, client.ResourceBlogs}
		counts := make([]int, len(resources))

		var out overview
		g, ctx := errgroup.WithContext(cmd.Context())
		for i, res := range resources {
			g.Go(func() error {
				var items []map[string]any
				if err := api.List(ctx, res, true, &items); err != nil {
					return fmt.Errorf("%s: %w", res, err)
				}
				counts[i] = len(items)
				return nil
			})
		}
		g.Go(func() error {
			var err error
			out.Inbox, err = api.SubmissionCounts(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			out.Settings, err = api.GetSettings(ctx)
			return err
		})
		g.Go(func() error {
			page, err := api.AuditLogs(ctx, client.AuditQuery{Limit: 5})
			out.RecentEvents = page.Items
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}

		out.Counts = make(map[string]int, len(resources))
		for i, res := range resources {
			out.Counts[res] = counts[i]
		}
		if jsonOutput {
			return printJSON(out)
		}

		fmt.Println(highlight(out.Settings.SiteName))
		if out.Settings.MaintenanceMode {
			fmt.Println(highlight("maintenance mode is ON"))
		}
		w := newTable("CONTENT", "ENTRIES")
		for _, res := range resources {
			fmt.Fprintf(w, "%s\t%d\n", res, out.Counts[res])
		}
		_ = w.Flush()
		fmt.Println()
		w = newTable("INBOX", "COUNT")
		for _, st := range models.AllContactStatuses() {
			fmt.Fprintf(w, "%s\t%d\n", st, out.Inbox[st])
		}
		_ = w.Flush()
		fmt.Println()
		w = newTable("RECENT", "USER", "ACTION", "TARGET")
		for _, e := range out.RecentEvents {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", formatTime(e.Timestamp), e.User, e.Action, e.Target)
		}
		return w.Flush()
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Show the server's health report",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := api.Health(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(h)
	},
}
