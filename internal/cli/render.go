package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MalanSathya/terraformcoder-ai/pkg/diagram"
	"github.com/MalanSathya/terraformcoder-ai/pkg/errors"
	"github.com/MalanSathya/terraformcoder-ai/pkg/render"
)

func newRenderCmd() *cobra.Command {
	var (
		output   string
		theme    string
		proxyURL string
		token    string
	)

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render diagram text to SVG",
		Long: `Render reads flowchart-style diagram text from a file (or stdin) and
writes an SVG artifact. Rendering uses local graphviz by default; pass
--proxy to delegate to a remote render service instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			text, err := readInput(args)
			if err != nil {
				return err
			}
			th := diagram.Theme(theme)
			if !th.Valid() {
				return errors.New(errors.ErrCodeInvalidTheme, "unknown theme %q", theme)
			}

			var engine render.Engine
			if proxyURL != "" {
				engine = render.NewRemoteEngine(proxyURL, render.StaticToken(token), nil)
			} else {
				engine = render.NewGraphvizEngine()
			}

			spinner := newSpinner(ctx, "rendering diagram")
			spinner.Start()
			p := newProgress(logger)
			artifact, err := engine.Render(ctx, diagram.NewSpec(text, th, nil))
			spinner.Stop()
			if err != nil {
				printError("render failed: %s", errors.UserMessage(err))
				return err
			}
			p.done(fmt.Sprintf("Rendered %d bytes", len(artifact)))

			if output == "-" {
				_, err = os.Stdout.Write(artifact)
				return err
			}
			if err := os.WriteFile(output, artifact, 0o644); err != nil {
				return err
			}
			printSuccess("wrote %s", StyleValue.Render(output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "diagram.svg", "output file (- for stdout)")
	cmd.Flags().StringVarP(&theme, "theme", "t", "dark", "diagram theme (dark or light)")
	cmd.Flags().StringVar(&proxyURL, "proxy", "", "remote render service URL")
	cmd.Flags().StringVar(&token, "token", "", "bearer token for the remote render service")
	return cmd
}
