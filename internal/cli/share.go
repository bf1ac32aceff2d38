package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MalanSathya/terraformcoder-ai/pkg/diagram"
	"github.com/MalanSathya/terraformcoder-ai/pkg/errors"
	"github.com/MalanSathya/terraformcoder-ai/pkg/sharelink"
)

func newShareCmd() *cobra.Command {
	var (
		theme      string
		editorBase string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "share [file]",
		Short: "Build live-editor and export links for diagram text",
		Long: `Share encodes diagram text into a compressed URL token and prints the
interactive editor link plus a download link for the chosen format.

The token embeds the full diagram state, so the editor link is
self-contained and reversible.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args)
			if err != nil {
				return err
			}
			th := diagram.Theme(theme)
			if !th.Valid() {
				return errors.New(errors.ErrCodeInvalidTheme, "unknown theme %q", theme)
			}

			codec := sharelink.NewCodec(editorBase)
			tok, err := codec.Encode(diagram.NewSpec(text, th, nil))
			if err != nil {
				return err
			}
			if tok.Degraded {
				printInfo("styling could not be embedded, link carries plain text only")
			}

			exportURL, err := codec.ExportURL(tok, format)
			if err != nil {
				return err
			}
			filename, err := sharelink.ExportFilename(format)
			if err != nil {
				return err
			}

			fmt.Println(StyleTitle.Render("Edit") + "    " + StyleLink.Render(codec.EditURL(tok)))
			fmt.Println(StyleTitle.Render("Export") + "  " + StyleLink.Render(exportURL))
			fmt.Println(StyleDim.Render("save as  " + filename))
			return nil
		},
	}

	cmd.Flags().StringVarP(&theme, "theme", "t", "dark", "diagram theme (dark or light)")
	cmd.Flags().StringVar(&editorBase, "editor", "", "live editor base URL")
	cmd.Flags().StringVarP(&format, "format", "f", "png", "export format (svg, png, pdf or jpeg)")
	return cmd
}
