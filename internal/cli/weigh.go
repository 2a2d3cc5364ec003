package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rcliao/memory-cartography/internal/session"
	"github.com/rcliao/memory-cartography/internal/view"
)

func init() {
	cmd := &cobra.Command{
		Use:   "weigh [id] [up|down]",
		Short: "Adjust a memory's relevance weight",
		Long:  "Send a fixed-increment weight adjustment for one memory. The backend returns the authoritative new weight.",
		Args:  cobra.ExactArgs(2),
		Run:   runWeigh,
	}

	cmd.Flags().Bool("legacy", false, "Use the per-direction increase/decrease endpoints of older backends")

	RootCmd.AddCommand(cmd)
}

func runWeigh(cmd *cobra.Command, args []string) {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		exitErr("parse id", err)
	}

	up := false
	switch args[1] {
	case "up":
		up = true
	case "down":
	default:
		exitErr("parse direction", fmt.Errorf("want up or down, got %q", args[1]))
	}

	sessionID, err := session.Resolve(sessionFlag)
	if err != nil {
		exitErr("resolve session", err)
	}

	c := newClient()
	legacy, _ := cmd.Flags().GetBool("legacy")

	var newWeight float64
	switch {
	case legacy && up:
		newWeight, err = c.IncreaseWeight(cmd.Context(), id)
	case legacy:
		newWeight, err = c.DecreaseWeight(cmd.Context(), id)
	case up:
		newWeight, err = c.AdjustWeight(cmd.Context(), sessionID, id, view.WeightStep)
	default:
		newWeight, err = c.AdjustWeight(cmd.Context(), sessionID, id, -view.WeightStep)
	}
	if err != nil {
		exitErr("adjust weight", err)
	}

	printJSON(struct {
		ID        int     `json:"id"`
		NewWeight float64 `json:"new_weight"`
	}{id, newWeight})
}
