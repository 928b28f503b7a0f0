package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/BaisilG/fbmeshd/impl"
	"github.com/BaisilG/fbmeshd/state"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Dump the mesh path table of a running daemon",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := state.LoadConfig(configPath)
		if err != nil {
			panic(err)
		}
		if cfg.Debug.Bind == "" {
			fmt.Fprintln(os.Stderr, "debug.bind is not configured; nothing to inspect")
			os.Exit(1)
		}
		base := "http://" + cfg.Debug.Bind

		var gw impl.GatewayDump
		if err := getJSON(base+"/debug/gateway", &gw); err != nil {
			panic(err)
		}
		var paths []impl.PathDump
		if err := getJSON(base+"/debug/paths", &paths); err != nil {
			panic(err)
		}

		fmt.Printf("gateway: %t\n\n", gw.IsGate)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DST\tNEXT HOP\tSN\tMETRIC\tHOPS\tEXPIRES\tROOT\tGATE")
		for _, p := range paths {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\t%t\t%t\n",
				p.Dst, p.NextHop, p.Sn, p.Metric, p.HopCount, p.ExpiresIn, p.IsRoot, p.IsGate)
		}
		w.Flush()
	},
}

func getJSON(url string, v any) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: %s", url, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
