package main

import (
	"fmt"
	"time"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/client/fixtures"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var inboxCmd = &cobra.Command{
	Use:     "inbox",
	Short:   "Read and triage contact submissions",
	GroupID: "site",
}

var inboxListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List contact submissions, newest first",
	PreRunE: requireLogin,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		list, err := api.Submissions(cmd.Context(), status)
		if fixtures.Enabled && (err != nil || len(list) == 0) {
			logger.Debug("showing inbox fixtures", zap.Error(err))
			warn("showing development fixtures")
			list, err = fixtures.Submissions(time.Now()), nil
		}
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(list)
		}
		w := newTable("ID", "STATUS", "RECEIVED", "NAME", "EMAIL", "SERVICE", "MESSAGE")
		for _, s := range list {
			st := s.Status
			if st == models.ContactStatusNew {
				st = highlight(st)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				s.IDHex(), st, formatTime(s.CreatedAt), s.Name, s.Email,
				truncate(s.ServiceInterest, 24), truncate(s.Message, 40))
		}
		return w.Flush()
	},
}

var inboxShowCmd = &cobra.Command{
	Use:     "show <id>",
	Short:   "Open a submission (marks a new one as read)",
	Args:    cobra.ExactArgs(1),
	PreRunE: requireLogin,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := api.Submission(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(s)
		}
		fmt.Printf("From:     %s <%s>\n", s.Name, s.Email)
		if s.Company != "" {
			fmt.Printf("Company:  %s\n", s.Company)
		}
		if s.ServiceInterest != "" {
			fmt.Printf("Service:  %s\n", s.ServiceInterest)
		}
		fmt.Printf("Received: %s\n", formatTime(s.CreatedAt))
		fmt.Printf("Status:   %s (revision %d)\n\n", s.Status, s.Revision)
		fmt.Println(s.Message)
		if s.Notes != "" {
			fmt.Printf("\nNotes: %s\n", s.Notes)
		}
		return nil
	},
}

var inboxSetCmd = &cobra.Command{
	Use:     "set <id>",
	Short:   "Change a submission's status or notes",
	Args:    cobra.ExactArgs(1),
	PreRunE: requireLogin,
	RunE: func(cmd *cobra.Command, args []string) error {
		cur, err := api.Submission(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		status, notes := cur.Status, cur.Notes
		if cmd.Flags().Changed("status") {
			status, _ = cmd.Flags().GetString("status")
		}
		if cmd.Flags().Changed("notes") {
			notes, _ = cmd.Flags().GetString("notes")
		}
		if !models.IsValidContactStatus(status) {
			return fmt.Errorf("status must be one of %v", models.AllContactStatuses())
		}
		saved, err := api.UpdateSubmission(cmd.Context(), args[0], status, notes, cur.Revision)
		if err != nil {
			return printFieldErrors(err)
		}
		fmt.Printf("Submission %s is now %s\n", saved.IDHex(), saved.Status)
		return nil
	},
}

var inboxDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Short:   "Delete a submission",
	Args:    cobra.ExactArgs(1),
	PreRunE: requireLogin,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := api.DeleteSubmission(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted", args[0])
		return nil
	},
}

func init() {
	inboxListCmd.Flags().String("status", "", "filter by status (new, read, replied, archived)")
	inboxSetCmd.Flags().String("status", "", "new status")
	inboxSetCmd.Flags().String("notes", "", "internal notes")
	inboxCmd.AddCommand(inboxListCmd, inboxShowCmd, inboxSetCmd, inboxDeleteCmd)
}
