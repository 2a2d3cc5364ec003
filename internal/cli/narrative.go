package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "narrative [query]",
		Short: "Generate a narrative summary of a search",
		Long:  "Ask the backend for an AI-generated narrative over the query's result set, with its keywords highlighted in the rendered output.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runNarrative,
	}

	cmd.Flags().StringP("type", "t", "", "Filter by memory type: user or public")

	RootCmd.AddCommand(cmd)
}

func runNarrative(cmd *cobra.Command, args []string) {
	memType, _ := cmd.Flags().GetString("type")
	query := strings.Join(args, " ")

	ctrl, err := newController()
	if err != nil {
		exitErr("resolve session", err)
	}

	if err := ctrl.GenerateNarrative(cmd.Context(), query, memType); err != nil {
		exitErr("narrative", err)
	}

	n := ctrl.Narrative()
	if formatFlag == "text" {
		fmt.Println(ctrl.RenderedNarrative())
		return
	}
	printJSON(struct {
		Text     string   `json:"text"`
		Keywords []string `json:"keywords"`
		Rendered string   `json:"rendered"`
	}{n.Text, n.Keywords, ctrl.RenderedNarrative()})
}
