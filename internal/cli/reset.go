package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset all weights in the session",
		Long:  "Reset every memory weight in the session back to its default value.",
		Run:   runReset,
	}

	RootCmd.AddCommand(cmd)
}

func runReset(cmd *cobra.Command, args []string) {
	ctrl, err := newController()
	if err != nil {
		exitErr("resolve session", err)
	}

	if err := ctrl.ResetWeights(cmd.Context()); err != nil {
		exitErr("reset weights", err)
	}

	fmt.Println(ctrl.Notice())
}
