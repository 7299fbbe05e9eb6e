// Package auth holds the commands that manage the Monday.com API token
package auth

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/boardframe/internal/cli"
	"github.com/thenoetrevino/boardframe/internal/cli/styles"
	"github.com/thenoetrevino/boardframe/internal/models"
)

// AuthCmd returns the auth parent command
func AuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the Monday.com API token",
	}

	cmd.AddCommand(VerifyCmd())
	cmd.AddCommand(LoginCmd())
	cmd.AddCommand(WhoamiCmd())

	return cmd
}

// VerifyCmd returns the auth verify subcommand
func VerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that the API token is accepted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUser(cmd, true)
		},
	}
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "No output; use the exit code")
	return cmd
}

// WhoamiCmd returns the auth whoami subcommand
func WhoamiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the user the API token belongs to",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUser(cmd, false)
		},
	}
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (user ID only)")
	return cmd
}

func runUser(cmd *cobra.Command, verify bool) error {
	formatter := cli.NewFormatter(cmd)

	return cli.Run(cmd, formatter, func(ctx context.Context, c *cli.CLI) error {
		if err := c.RequireAPI(); err != nil {
			return err
		}

		var (
			user *models.User
			err  error
		)
		if verify {
			user, err = c.App.Client.VerifyToken(ctx)
		} else {
			user, err = c.App.Client.Me(ctx)
		}
		if err != nil {
			return err
		}

		if formatter.Quiet {
			if !verify {
				formatter.Println(user.ID)
			}
			return nil
		}
		if formatter.JSON {
			return formatter.Success(map[string]any{"user": user})
		}

		if verify {
			formatter.Printf("%s\n", styles.SuccessStyle.Render("✓ Token is valid"))
		}
		formatter.Printf("%s\n", styles.Field("User", user.Name))
		formatter.Printf("%s\n", styles.Field("Email", user.Email))
		formatter.Printf("%s\n", styles.Field("ID", user.ID))
		return nil
	})
}
