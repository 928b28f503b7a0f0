package cmd

import (
	"fmt"
	"os"
	"path"

	"github.com/spf13/cobra"

	"github.com/BaisilG/fbmeshd/state"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := os.Stat(configPath); err == nil {
			fmt.Fprintf(os.Stderr, "%s already exists, refusing to overwrite\n", configPath)
			os.Exit(1)
		}
		cfg := state.DefaultConfig()
		out, err := cfg.Marshal()
		if err != nil {
			panic(err)
		}
		if err := os.MkdirAll(path.Dir(configPath), 0755); err != nil {
			panic(err)
		}
		if err := os.WriteFile(configPath, out, 0644); err != nil {
			panic(err)
		}
		fmt.Printf("wrote %s; set mesh.nodeAddr and gateway.monitoredAddresses before running\n", configPath)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
