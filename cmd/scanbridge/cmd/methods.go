package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MeKo-Tech/scanbridge/internal/bridge"
	"github.com/spf13/cobra"
)

// methodsCmd lists the command surface.
var methodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "List the commands accepted on the command channel",
	Long: `List every command name the bridge dispatches, in declaration order.

Examples:
  scanbridge methods
  scanbridge methods --filter color
  scanbridge methods --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, _ := cmd.Flags().GetString("filter")
		asJSON, _ := cmd.Flags().GetBool("json")

		var names []string
		for _, m := range bridge.Methods() {
			if filter == "" || strings.Contains(strings.ToLower(string(m)), strings.ToLower(filter)) {
				names = append(names, string(m))
			}
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(names)
		}
		for _, n := range names {
			_, _ = fmt.Fprintln(out, n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(methodsCmd)
	methodsCmd.Flags().String("filter", "", "only list commands containing this text (case-insensitive)")
	methodsCmd.Flags().Bool("json", false, "print as a JSON array")
}
