package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var rootCmd = &cobra.Command{
	Use:   "deepsea",
	Short: "深海圈 landing page and learning center",
	Long:  "deepsea: terminal edition of the 深海圈 landing page with a demo learning center that tracks course progress.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	addGlobalFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(selftestCmd)
	rootCmd.AddCommand(versionCmd)
}

func addGlobalFlags(flags *pflag.FlagSet) {
	flags.String("db", "", "Path to SQLite database file (overrides DEEPSEA_DB env var)")
	flags.String("config", "", "Path to a YAML config file (overrides DEEPSEA_CONFIG env var)")
	flags.String("catalog", "", "Path to a YAML catalog replacing the built-in one")
	flags.String("log", "", "Log file path, \"stderr\" or \"discard\"")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.Bool("memory", false, "Keep progress in memory only")
	flags.Bool("self-test", true, "Run the page self-test after the first render")
}
