package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/marcus/tale/internal/config"
	"github.com/marcus/tale/internal/output"
)

var loginCmd = &cobra.Command{
	Use:     "login [email]",
	Short:   "Log in to the story server",
	GroupID: "system",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var email, password string
		if len(args) > 0 {
			email = args[0]
		}

		fields := []huh.Field{}
		if email == "" {
			fields = append(fields, huh.NewInput().
				Title("Email").
				Value(&email).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("email required")
					}
					return nil
				}))
		}
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&password).
			Validate(func(s string) error {
				if s == "" {
					return fmt.Errorf("password required")
				}
				return nil
			}))

		if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
			return fmt.Errorf("login prompt: %w", err)
		}

		client, _, err := newClient()
		if err != nil {
			return err
		}

		resp, err := client.Login(email, password)
		if err != nil {
			output.Error("login: %v", err)
			return err
		}

		if err := config.SetCredentials(getBaseDir(), resp.Token, resp.User.ID, resp.User.Name); err != nil {
			output.Error("save credentials: %v", err)
			return err
		}

		output.Success("Logged in as %s", resp.User.Name)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:     "logout",
	Short:   "Log out and discard the stored token",
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ClearCredentials(getBaseDir()); err != nil {
			output.Error("logout: %v", err)
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}
