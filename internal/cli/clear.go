package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/hardhatlabs/constructpro/internal/config"
	"github.com/hardhatlabs/constructpro/internal/store"
	"github.com/spf13/cobra"
)

var clearForce bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all locally stored data",
	Long: `Remove every locally persisted collection and the stored session.
Projects live on the server and are unaffected.`,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearForce, "force", "f", false, "Skip confirmation")
}

func runClear(cmd *cobra.Command, args []string) error {
	if !clearForce {
		reader := bufio.NewReader(os.Stdin)
		fmt.Print("This removes all local data. Continue? [y/N]: ")
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	gw, err := store.OpenGateway(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open local store: %w", err)
	}
	defer gw.Close()

	gw.ClearAll()
	fmt.Println("Local data cleared.")
	return nil
}
