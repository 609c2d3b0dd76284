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

var testimonialCmd = &cobra.Command{
	Use:   "testimonial",
	Short: "Share your experience through the public testimonial form",
	Long: `Fetches a form nonce, runs the same checks as the server locally,
and posts the testimonial. It stays hidden until an admin publishes it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var in client.TestimonialInput
		in.Name, _ = cmd.Flags().GetString("name")
		in.RoleCompany, _ = cmd.Flags().GetString("role")
		in.Location, _ = cmd.Flags().GetString("location")
		in.Rating, _ = cmd.Flags().GetInt("rating")
		in.Experience, _ = cmd.Flags().GetString("experience")

		form, err := api.TestimonialForm(cmd.Context())
		if err != nil {
			return err
		}
		if wait := time.Duration(form.MinFillMS)*time.Millisecond - time.Since(form.FetchedAt); wait > 0 {
			select {
			case <-time.After(wait + 100*time.Millisecond):
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			}
		}

		err = api.SubmitTestimonial(cmd.Context(), form, in, store)
		var ve *formguard.ValidationError
		switch {
		case errors.As(err, &ve):
			for f, msg := range ve.Fields {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", f, msg)
			}
			return errors.New("the testimonial was not sent")
		case err != nil:
			if _, msg, ok := formguard.Banner(err); ok {
				return errors.New(msg)
			}
			return err
		}
		fmt.Println("Thank you. Your testimonial will appear once it is reviewed.")
		return nil
	},
}

func init() {
	f := testimonialCmd.Flags()
	f.String("name", "", "your name")
	f.String("role", "", `your role and company, e.g. "CTO, Acme"`)
	f.String("location", "", "city and country")
	f.Int("rating", 5, "rating from 1 to 5")
	f.String("experience", "", "your experience with us")
}
