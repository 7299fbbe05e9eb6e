package auth

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/boardframe/internal/cli"
	"github.com/thenoetrevino/boardframe/internal/cli/styles"
	"github.com/thenoetrevino/boardframe/internal/models"
	"github.com/thenoetrevino/boardframe/internal/monday"
)

// LoginCmd returns the auth login subcommand
func LoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an API token in the config file",
		Long: `Prompt for a Monday.com API token, check it and store it in the
config file (written with 0600 permissions).

Examples:
  boardframe auth login
  echo "$TOKEN" | boardframe auth login --with-token
`,
		RunE: runLogin,
	}

	cmd.Flags().Bool("with-token", false, "Read the token from stdin")
	cmd.Flags().Bool("no-verify", false, "Store the token without checking it")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "No output")

	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	formatter := cli.NewFormatter(cmd)
	withToken, _ := cmd.Flags().GetBool("with-token")
	noVerify, _ := cmd.Flags().GetBool("no-verify")

	return cli.Run(cmd, formatter, func(ctx context.Context, c *cli.CLI) error {
		token, err := readToken(cmd, withToken)
		if err != nil {
			return err
		}

		var user *models.User
		if !noVerify {
			client, err := monday.New(token, c.App.Config.API.ClientOptions()...)
			if err != nil {
				return err
			}
			if user, err = client.VerifyToken(ctx); err != nil {
				return err
			}
		}

		c.App.Config.API.Token = token
		if err := c.App.Config.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		if formatter.JSON {
			return formatter.Success(map[string]any{"config": c.App.Config.Path(), "user": user})
		}
		formatter.Printf("%s\n", styles.SuccessStyle.Render("✓ Token saved to "+c.App.Config.Path()))
		if user != nil {
			formatter.Printf("%s\n", styles.Field("Logged in as", user.Name))
		}
		return nil
	})
}

func readToken(cmd *cobra.Command, fromStdin bool) (string, error) {
	var token string
	switch {
	case fromStdin:
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("failed to read token from stdin: %w", err)
		}
		token = line
	case cli.IsTerminal(cmd.InOrStdin()):
		var err error
		if token, err = cli.PromptSecret("Monday.com API token"); err != nil {
			return "", err
		}
	default:
		return "", cli.Usagef("stdin is not a terminal; use --with-token to read the token from stdin")
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", monday.ErrNoToken
	}
	return token, nil
}
