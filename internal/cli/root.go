package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hardhatlabs/constructpro/internal/config"
	"github.com/hardhatlabs/constructpro/internal/logger"
	"github.com/hardhatlabs/constructpro/internal/tui"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	logFile    string
	logConsole bool
)

var rootCmd = &cobra.Command{
	Use:   "constructpro",
	Short: "ConstructPro - construction management dashboard",
	Long: `ConstructPro is a terminal dashboard for managing construction projects,
personnel, materials, finances, lab tests, marketplace listings, and site
tasks. Projects are synchronized with the ConstructPro server; everything
else is kept in a durable local store.

Run 'constructpro' without arguments to launch the interactive dashboard.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			cfg = config.DefaultConfig()
		}

		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
		}

		logConfig := logger.DefaultConfig()
		logConfig.Level = logger.ParseLevel(cfg.LogLevel)
		logConfig.FilePath = cfg.LogFile
		logConfig.Console = cfg.LogConsole

		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Info("ConstructPro started", logger.F("command", cmd.Name()))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		logger.Info("Launching dashboard")
		m := tui.NewModel(a.store)
		p := tea.NewProgram(m, tea.WithAltScreen())

		if _, err := p.Run(); err != nil {
			logger.Error("Dashboard error", logger.F("error", err))
			return fmt.Errorf("failed to run dashboard: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("ConstructPro exiting", logger.F("command", cmd.Name()))
		logger.Close()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(personnelCmd)
	rootCmd.AddCommand(materialCmd)
	rootCmd.AddCommand(financeCmd)
	rootCmd.AddCommand(labTestCmd)
	rootCmd.AddCommand(listingCmd)
	rootCmd.AddCommand(siteTaskCmd)
	rootCmd.AddCommand(clearCmd)
}
