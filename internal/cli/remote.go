package cli

import (
	"fmt"
	"time"

	"github.com/existflow/weektrack/internal/remote"
	"github.com/spf13/cobra"
)

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Sync server settings",
	Long: `Show or change the sync server used while logged in.

Commands:
  weektrack remote status                 # Show server and account
  weektrack remote config --server URL    # Set server URL`,
	RunE: runRemoteStatus,
}

var remoteStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync server status",
	RunE:  runRemoteStatus,
}

var remoteConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure sync settings",
	RunE:  runRemoteConfig,
}

func init() {
	remoteCmd.AddCommand(remoteStatusCmd)
	remoteCmd.AddCommand(remoteConfigCmd)

	remoteConfigCmd.Flags().String("server", "", "Set server URL")
}

func runRemoteStatus(cmd *cobra.Command, args []string) error {
	client, err := remote.NewClient()
	if err != nil {
		return err
	}

	server, userID := client.GetStatus()
	fmt.Printf("Server:   %s\n", server)

	if !client.IsLoggedIn() {
		fmt.Println("Account:  not logged in (timers are stored locally)")
		return nil
	}

	fmt.Printf("User ID:  %s\n", userID)

	ctx, cancel := contextWithTimeout(cmd, 10*time.Second)
	defer cancel()
	user, err := client.Me(ctx)
	if err != nil {
		fmt.Printf("Account:  unreachable (%v)\n", err)
		return nil
	}
	fmt.Printf("Account:  %s <%s>\n", user.Username, user.Email)
	return nil
}

func runRemoteConfig(cmd *cobra.Command, args []string) error {
	client, err := remote.NewClient()
	if err != nil {
		return err
	}

	server, _ := cmd.Flags().GetString("server")
	if server == "" {
		current, _ := client.GetStatus()
		fmt.Printf("Server: %s\n", current)
		fmt.Println("Set a new one with: weektrack remote config --server URL")
		return nil
	}

	if err := client.SetServer(server); err != nil {
		return err
	}
	fmt.Printf("✓ Server set to %s\n", server)
	return nil
}
