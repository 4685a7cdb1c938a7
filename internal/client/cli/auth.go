package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/areacheck/internal/client/auth"
	"github.com/iudanet/areacheck/internal/client/storage"
)

func (c *Cli) newRegisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register [username]",
		Short: "Register a new account",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username, password, err := c.readCredentials(args)
			if err != nil {
				return err
			}

			svc, err := c.authService(cmd.Context())
			if err != nil {
				return err
			}

			session, err := svc.Register(cmd.Context(), username, password)
			if err != nil {
				return err
			}

			return c.printSession("Registration successful!", session)
		},
	}
}

func (c *Cli) newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login [username]",
		Short: "Login and store the session token",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username, password, err := c.readCredentials(args)
			if err != nil {
				return err
			}

			svc, err := c.authService(cmd.Context())
			if err != nil {
				return err
			}

			session, err := svc.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}

			return c.printSession("Login successful!", session)
		},
	}
}

func (c *Cli) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the local session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.authService(cmd.Context())
			if err != nil {
				return err
			}

			err = svc.Logout(cmd.Context())
			if errors.Is(err, auth.ErrNotAuthenticated) {
				c.io.Println("Not logged in")
				return nil
			}
			if err != nil {
				return err
			}

			c.io.Println("Logged out")
			return nil
		},
	}
}

func (c *Cli) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.authService(cmd.Context())
			if err != nil {
				return err
			}

			status, err := svc.Status(cmd.Context())
			if err != nil {
				return err
			}

			if c.jsonOutput() {
				return c.printJSON(status)
			}

			if !status.Authenticated {
				c.io.Println("Status: Not authenticated")
				c.io.Println("Run 'areacheck login' to authenticate.")
				return nil
			}

			c.io.Println("Status: Authenticated")
			c.io.Printf("Username: %s\n", status.Username)
			c.io.Printf("Server: %s\n", status.ServerURL)
			c.io.Printf("Token expires: %s\n", status.ExpiresAt.Format(time.RFC3339))
			if status.Expired {
				c.io.Println("Token has expired. Please login again.")
			} else {
				c.io.Printf("Time remaining: %s\n", status.Remaining.Round(time.Second))
			}
			return nil
		},
	}
}

func (c *Cli) printSession(title string, session *storage.AuthData) error {
	if c.jsonOutput() {
		return c.printJSON(map[string]any{
			"username":   session.Username,
			"expires_at": session.ExpiresAt,
		})
	}

	c.io.Println(title)
	c.io.Printf("Username: %s\n", session.Username)
	c.io.Printf("Token expires: %s\n", session.ExpiresAt.Format(time.RFC3339))
	return nil
}
