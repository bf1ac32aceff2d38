package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MalanSathya/terraformcoder-ai/pkg/diagram"
)

func newParseCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse diagram text into a component graph",
		Long: `Parse reads flowchart-style diagram text from a file (or stdin when no
file is given) and prints the extracted components and connections.

Parsing is tolerant: malformed lines are skipped, never fatal, so this
command only fails on I/O errors.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			text, err := readInput(args)
			if err != nil {
				return err
			}
			p := newProgress(logger)
			g := diagram.Parse(text)
			p.done(fmt.Sprintf("Parsed %d components, %d connections", len(g.Components), len(g.Connections)))

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(g)
			}
			printGraph(g)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit the graph as JSON")
	return cmd
}

func readInput(args []string) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func printGraph(g diagram.Graph) {
	fmt.Println(StyleTitle.Render("Components"))
	for _, c := range g.Components {
		fmt.Printf("  %s %s %s\n",
			styleIconInfo.Render(iconInfo),
			StyleValue.Render(c.Label),
			StyleDim.Render("("+string(c.Category)+")"))
	}
	if len(g.Connections) == 0 {
		return
	}
	fmt.Println(StyleTitle.Render("Connections"))
	for _, conn := range g.Connections {
		kind := ""
		if conn.Kind != diagram.KindOther {
			kind = " " + StyleDim.Render("["+string(conn.Kind)+"]")
		}
		fmt.Printf("  %s %s %s%s\n", g.Resolve(conn.From), iconArrow, g.Resolve(conn.To), kind)
	}
}
