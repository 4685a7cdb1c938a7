package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/areacheck/pkg/api"
)

func (c *Cli) newCheckCmd() *cobra.Command {
	var x, y, r float64

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether a point falls inside the region",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := c.token(cmd.Context())
			if err != nil {
				return err
			}

			// Незаданный флаг не отправляется: сервер сам отвергнет запрос
			req := api.CheckRequest{}
			if cmd.Flags().Changed("x") {
				req.X = &x
			}
			if cmd.Flags().Changed("y") {
				req.Y = &y
			}
			if cmd.Flags().Changed("r") {
				req.R = &r
			}

			result, err := c.apiClient.Check(cmd.Context(), token, req)
			if err != nil {
				return err
			}

			if c.jsonOutput() {
				return c.printJSON(result)
			}

			c.io.Printf("x=%g y=%g r=%g: %s\n", result.X, result.Y, result.R, hitText(result.Hit))
			return nil
		},
	}

	cmd.Flags().Float64Var(&x, "x", 0, "X coordinate")
	cmd.Flags().Float64Var(&y, "y", 0, "Y coordinate")
	cmd.Flags().Float64Var(&r, "r", 0, "Region size R (-3..3)")

	return cmd
}

func (c *Cli) newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show checked points, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := c.token(cmd.Context())
			if err != nil {
				return err
			}

			points, err := c.apiClient.History(cmd.Context(), token)
			if err != nil {
				return err
			}

			if c.jsonOutput() {
				return c.printJSON(points)
			}

			if len(points) == 0 {
				c.io.Println("No checks yet")
				return nil
			}

			c.io.Printf("%-30s %10s %10s %6s  %s\n", "CHECKED AT", "X", "Y", "R", "RESULT")
			for _, p := range points {
				c.io.Printf("%-30s %10g %10g %6g  %s\n",
					p.CheckedAt.Format(time.RFC3339Nano), p.X, p.Y, p.R, hitText(p.Hit))
			}
			c.io.Printf("\nTotal: %d\n", len(points))
			return nil
		},
	}
}

func (c *Cli) newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all checked points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := c.token(cmd.Context())
			if err != nil {
				return err
			}

			result, err := c.apiClient.Clear(cmd.Context(), token)
			if err != nil {
				return err
			}

			if c.jsonOutput() {
				return c.printJSON(result)
			}

			c.io.Printf("Deleted %d record(s)\n", result.Deleted)
			return nil
		},
	}
}

func (c *Cli) newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.apiClient.Health(cmd.Context())
			if err != nil {
				return err
			}

			if c.jsonOutput() {
				return c.printJSON(result)
			}

			c.io.Printf("Status: %s\n", result.Status)
			if result.Version != "" {
				c.io.Printf("Version: %s\n", result.Version)
			}
			return nil
		},
	}
}

func (c *Cli) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		// Версия не требует сервера и хранилища
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			c.io.Println("AreaCheck Client")
			c.io.Printf("Version:    %s\n", c.build.Version)
			c.io.Printf("Build Date: %s\n", c.build.BuildDate)
			c.io.Printf("Git Commit: %s\n", c.build.GitCommit)
		},
	}
}

func hitText(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

