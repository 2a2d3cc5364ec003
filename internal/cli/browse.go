package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/memory-cartography/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Interactive session over the memory collection",
		Long: `Open an interactive session that keeps the memory store in memory
across operations, like the browser page does. Commands:

  search <query>        run a search
  type <user|public|->  set the memory type filter (- clears it)
  sort <criterion>      weight, date, or relevance
  up <id> / down <id>   adjust a memory's weight
  locate <id> <loc>     edit a memory's location
  narrative             summarize the current query
  reset                 reset all weights
  show                  print the current ordering
  quit                  leave`,
		Run: runBrowse,
	}

	RootCmd.AddCommand(cmd)
}

func runBrowse(cmd *cobra.Command, args []string) {
	ctrl, err := newController()
	if err != nil {
		exitErr("resolve session", err)
	}

	var memType string
	ctx := cmd.Context()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	fmt.Print("> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			fmt.Print("> ")
			continue
		}

		fields := strings.Fields(line)
		verb, rest := fields[0], fields[1:]

		switch verb {
		case "quit", "exit":
			return

		case "search":
			ctrl.Search(ctx, strings.Join(rest, " "), memType)

		case "type":
			if len(rest) == 1 {
				memType = rest[0]
				if memType == "-" {
					memType = ""
				}
			}

		case "sort":
			if len(rest) == 1 {
				if err := ctrl.SetSortBy(model.SortBy(rest[0])); err != nil {
					fmt.Println(err)
				}
			}

		case "up", "down":
			if id, ok := parseID(rest); ok {
				if verb == "up" {
					ctrl.IncreaseWeight(ctx, id)
				} else {
					ctrl.DecreaseWeight(ctx, id)
				}
			}

		case "locate":
			if id, ok := parseID(rest); ok && len(rest) > 1 {
				ctrl.UpdateLocation(ctx, id, strings.Join(rest[1:], " "))
			}

		case "narrative":
			if ctrl.GenerateNarrative(ctx, ctrl.Query(), memType) == nil {
				fmt.Println(ctrl.RenderedNarrative())
			}

		case "reset":
			ctrl.ResetWeights(ctx)
			if n := ctrl.Notice(); n != "" {
				fmt.Println(n)
			}

		case "show":
			printMemoryTable(ctrl.Memories())

		default:
			fmt.Printf("unknown command %q\n", verb)
		}

		if msg := ctrl.Error(); msg != "" {
			fmt.Println("!", msg)
		} else if verb == "search" || verb == "sort" || verb == "up" || verb == "down" {
			printMemoryTable(ctrl.Memories())
		}
		fmt.Print("> ")
	}
}

func parseID(fields []string) (int, bool) {
	if len(fields) == 0 {
		fmt.Println("missing memory id")
		return 0, false
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		fmt.Printf("bad memory id %q\n", fields[0])
		return 0, false
	}
	return id, true
}
