package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/formguard"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/client"
	"github.com/spf13/cobra"
)

var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Send a message through the public contact form",
	Long: `Fetches a form nonce, runs the same checks as the server locally,
and posts the message. The command waits out the minimum fill time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var in client.ContactInput
		in.Name, _ = cmd.Flags().GetString("name")
		in.Email, _ = cmd.Flags().GetString("email")
		in.Company, _ = cmd.Flags().GetString("company")
		in.Message, _ = cmd.Flags().GetString("message")
		in.ServiceInterest, _ = cmd.Flags().GetString("service")

		form, err := api.ContactForm(cmd.Context(), in.ServiceInterest)
		if err != nil {
			return err
		}
		if in.Message == "" {
			in.Message = form.Message
		}

		if wait := time.Duration(form.MinFillMS)*time.Millisecond - time.Since(form.FetchedAt); wait > 0 {
			select {
			case <-time.After(wait + 100*time.Millisecond):
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			}
		}

		err = api.SubmitContact(cmd.Context(), form, in, store)
		var ve *formguard.ValidationError
		switch {
		case errors.As(err, &ve):
			for f, msg := range ve.Fields {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", f, msg)
			}
			return errors.New("the message was not sent")
		case err != nil:
			if _, msg, ok := formguard.Banner(err); ok {
				return errors.New(msg)
			}
			return err
		}
		fmt.Println("Thank you. Your message has been sent.")
		return nil
	},
}

func init() {
	f := contactCmd.Flags()
	f.String("name", "", "your name")
	f.String("email", "", "your email")
	f.String("company", "", "company (optional)")
	f.String("message", "", "message (defaults to the service prefill)")
	f.String("service", "", "service you are interested in")
}
