package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [timer]",
	Aliases: []string{"rm"},
	Short:   "Delete a timer",
	Long: `Delete a timer by its id, id prefix or title.

Examples:
  weektrack delete abc123
  weektrack rm "Reading"`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

var deleteForce bool

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation")
}

func runDelete(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer closeApp(a)

	t, err := resolveTimer(a.Tracker, args[0])
	if err != nil {
		return err
	}

	if cfg.ConfirmDelete && !deleteForce {
		fmt.Printf("About to delete: \"%s\" (ID: %s)\n", t.Title, t.ID)
		if !confirm("Are you sure?") {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	a.Tracker.DeleteTimer(t.ID)
	fmt.Printf("🗑️  Deleted: \"%s\"\n", t.Title)
	return nil
}
