package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/formguard"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/client"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginCmd = &cobra.Command{
	Use:     "login",
	Short:   "Sign in as an admin",
	GroupID: "session",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		fromStdin, _ := cmd.Flags().GetBool("password-stdin")

		in := bufio.NewReader(os.Stdin)
		if email == "" {
			fmt.Fprint(os.Stderr, "Email: ")
			line, err := in.ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			email = strings.TrimSpace(line)
		}
		password, err := readPassword(in, fromStdin)
		if err != nil {
			return err
		}

		err = gate.Login(cmd.Context(), email, password)
		var ve *formguard.ValidationError
		var ae *client.APIError
		switch {
		case errors.As(err, &ve):
			for field, msg := range ve.Fields {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
			}
			return errors.New("invalid login details")
		case errors.As(err, &ae) && ae.RetryAfter > 0:
			return fmt.Errorf("%s", ae.Message)
		case errors.Is(err, client.ErrUnauthorized):
			return errors.New("invalid email or password")
		case err != nil:
			return err
		}

		c, _ := gate.Current()
		if jsonOutput {
			return printJSON(c)
		}
		fmt.Printf("Signed in as %s (%s), token valid until %s\n", c.Email, c.Role, formatTime(c.ExpiresAt))
		return nil
	},
}

// readPassword prompts without echo on a terminal, otherwise reads one
// line from stdin.
func readPassword(in *bufio.Reader, fromStdin bool) (string, error) {
	fd := int(os.Stdin.Fd())
	if !fromStdin && term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Password: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		return string(b), err
	}
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

var logoutCmd = &cobra.Command{
	Use:     "logout",
	Short:   "Forget the stored admin token",
	GroupID: "session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := gate.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Short:   "Show the signed-in admin",
	GroupID: "session",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, ok := gate.Current()
		if !ok {
			fmt.Println("anonymous")
			return nil
		}
		remote, _ := cmd.Flags().GetBool("check")
		if remote {
			info, err := api.Session(cmd.Context())
			if err != nil {
				return err
			}
			if !info.Authenticated {
				return client.ErrUnauthorized
			}
		}
		if jsonOutput {
			return printJSON(c)
		}
		fmt.Printf("%s <%s> role=%s expires=%s\n", c.Name, c.Email, c.Role, formatTime(c.ExpiresAt))
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "admin email")
	loginCmd.Flags().Bool("password-stdin", false, "read the password from stdin")
	whoamiCmd.Flags().Bool("check", false, "verify the token with the server")
}
