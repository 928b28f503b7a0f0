package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath = "/etc/fbmeshd/config.yaml"

var rootCmd = &cobra.Command{
	Use:   "fbmeshd",
	Short: "802.11s mesh routing daemon",
	Long: `fbmeshd runs proactive HWMP-style path announcement routing on an
802.11s mesh interface and keeps the kernel default route pointed at the best
reachable mesh gate.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", configPath, "daemon configuration file")
}
