package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var consentCmd = &cobra.Command{
	Use:       "consent [accept|decline]",
	Short:     "Show or record the cookie-consent choice",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"accept", "decline"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			accepted, set := store.Consent()
			switch {
			case !set:
				fmt.Println("cookie consent: not answered")
			case accepted:
				fmt.Println("cookie consent: accepted")
			default:
				fmt.Println("cookie consent: declined")
			}
			return nil
		}
		switch args[0] {
		case "accept":
			return store.SetConsent(true)
		case "decline":
			return store.SetConsent(false)
		}
		return fmt.Errorf("expected accept or decline, got %q", args[0])
	},
}
