package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/BaisilG/fbmeshd/core"
	"github.com/BaisilG/fbmeshd/state"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the mesh routing daemon",
	Long:  `This will run fbmeshd on the current host. Ensure it has enough permissions to manage kernel routes on the mesh interface.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := state.LoadConfig(configPath)
		if err != nil {
			panic(err)
		}
		if err := state.ConfigValidator(&cfg); err != nil {
			panic(err)
		}

		level := slog.LevelInfo
		switch cfg.Log.Level {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		}
		if ok, _ := cmd.Flags().GetBool("verbose"); ok {
			level = slog.LevelDebug
		}

		if err := core.Start(cfg, level); err != nil {
			panic(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolP("verbose", "v", false, "Verbose output")
}
