package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rcliao/memory-cartography/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search memories in the current session",
		Long:  "Search the session's memory collection. Results arrive in the server's order; use --sort to re-sort locally.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().StringP("type", "t", "", "Filter by memory type: user or public")
	cmd.Flags().String("sort", "", "Sort criterion: weight, date, or relevance")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	memType, _ := cmd.Flags().GetString("type")
	sortBy, _ := cmd.Flags().GetString("sort")
	query := strings.Join(args, " ")

	ctrl, err := newController()
	if err != nil {
		exitErr("resolve session", err)
	}

	if sortBy != "" {
		if err := ctrl.SetSortBy(model.SortBy(sortBy)); err != nil {
			exitErr("sort", err)
		}
	}

	if err := ctrl.Search(cmd.Context(), query, memType); err != nil {
		exitErr("search", err)
	}

	memories := ctrl.Memories()
	if formatFlag == "text" {
		printMemoryTable(memories)
		return
	}
	if len(memories) == 0 {
		fmt.Println("[]")
		return
	}

	// JSON output carries the resolved image source alongside each record,
	// the same value the browser grid would render.
	out := make([]memoryWithImage, len(memories))
	for i, m := range memories {
		out[i] = memoryWithImage{Memory: m, Image: ctrl.ImageURL(m)}
	}
	printJSON(out)
}

type memoryWithImage struct {
	model.Memory
	Image string `json:"image"`
}

func printMemoryTable(memories []model.Memory) {
	if len(memories) == 0 {
		fmt.Println("no memories found")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWEIGHT\tDATE\tLOCATION\tTITLE")
	for _, m := range memories {
		fmt.Fprintf(w, "%d\t%.1f\t%s\t%s\t%s\n", m.ID, m.EffectiveWeight(), m.Date, m.Location, m.Title)
	}
	w.Flush()
}
