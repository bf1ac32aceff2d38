package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version. Values
// are injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the terraformcoder CLI and returns an error if any command
// fails. The context carries process-lifetime cancellation (SIGINT and
// SIGTERM); the logger is attached to it and accessible to all commands
// via loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "terraformcoder",
		Short:        "TerraformCoder turns infrastructure descriptions into Terraform and architecture diagrams",
		Long:         `TerraformCoder generates Terraform code from plain-English infrastructure descriptions and renders the resulting architecture as a diagram. It ships the API server plus local tools for the diagram pipeline: parsing, rendering and share-link generation.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("terraformcoder %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newServeCmd())
	root.AddCommand(newParseCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newShareCmd())
	root.AddCommand(newHistoryCmd())

	return root.ExecuteContext(ctx)
}
