package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcus/tale/internal/config"
	"github.com/marcus/tale/internal/output"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show login and server status",
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfg, err := newClient()
		if err != nil {
			return err
		}

		fmt.Printf("Server: %s\n", client.BaseURL)
		if cfg.Token == "" {
			fmt.Println("Not logged in.")
		} else {
			fmt.Printf("Logged in as %s (%s)\n", cfg.Username, cfg.UserID)
		}

		if _, err := client.HealthCheck(); err != nil {
			output.Warning("server unreachable: %v", err)
			return nil
		}
		output.Success("Server is healthy")
		return nil
	},
}

var serverCmd = &cobra.Command{
	Use:     "server [url]",
	Short:   "Show or set the server URL",
	GroupID: "system",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			url, err := config.ServerURL(getBaseDir())
			if err != nil {
				return err
			}
			fmt.Println(url)
			return nil
		}

		if err := config.SetServerURL(getBaseDir(), args[0]); err != nil {
			output.Error("set server: %v", err)
			return err
		}
		output.Success("Server set to %s", args[0])
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Show version",
	GroupID: "system",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tale %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(versionCmd)
}
