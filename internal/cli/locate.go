package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/memory-cartography/internal/session"
)

func init() {
	cmd := &cobra.Command{
		Use:   "locate [id] [location]",
		Short: "Edit a memory's location",
		Long:  "Update the location field of one memory. Newer backends return the full updated record.",
		Args:  cobra.MinimumNArgs(2),
		Run:   runLocate,
	}

	RootCmd.AddCommand(cmd)
}

func runLocate(cmd *cobra.Command, args []string) {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		exitErr("parse id", err)
	}
	location := strings.Join(args[1:], " ")

	sessionID, err := session.Resolve(sessionFlag)
	if err != nil {
		exitErr("resolve session", err)
	}

	updated, err := newClient().UpdateLocation(cmd.Context(), sessionID, id, location)
	if err != nil {
		exitErr("update location", err)
	}

	if updated == nil {
		fmt.Printf("location of memory %d set to %q\n", id, location)
		return
	}
	printJSON(updated)
}
