package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version. The main package calls it
// with values injected through ldflags.
//
// Parameters:
//   - v: semantic version string
//   - c: git commit SHA
//   - d: build timestamp
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// NewRootCommand builds the outline command tree.
//
// Logging:
//   - Default: info level on stderr
//   - With --verbose (-v): debug level, including engine and outline library logs
//
// Returns:
//   - *cobra.Command: the root command, ready for ExecuteContext
func NewRootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "outline",
		Short:        "Screen-space outline post-process tools",
		Long:         `outline renders the screen-space outline effect on the CPU over synthetic scenes and inspects the frame graph it is scheduled in.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)
			installLogger(logger)
			cmd.SetContext(withLogger(cmd.Context(), logger))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("outline %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newRenderCmd())
	root.AddCommand(newGraphCmd())
	return root
}
