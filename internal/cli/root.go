// Package cli implements the translate-cli command surface. Commands are
// thin: they wire the config store, history ledger, submitter, and poller
// together and print what the core returns.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lexiflow/translation-platform/internal/clientconfig"
	"github.com/lexiflow/translation-platform/internal/history"
	"github.com/lexiflow/translation-platform/internal/logging"
)

// Deps are the injectable collaborators behind the commands. Tests swap in
// memory-backed stores; main wires the file-backed ones.
type Deps struct {
	Config  clientconfig.Store
	Ledger  *history.Ledger
	Log     zerolog.Logger
	Out     io.Writer
	Verbose bool
}

// DefaultDeps builds the production dependency set.
func DefaultDeps(verbose bool) (*Deps, error) {
	configPath, err := clientconfig.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("locate config: %w", err)
	}
	historyPath, err := history.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("locate history: %w", err)
	}

	return &Deps{
		Config:  clientconfig.NewFileStore(configPath),
		Ledger:  history.New(history.NewFileStore(historyPath)),
		Log:     logging.NewCLI(verbose),
		Out:     os.Stdout,
		Verbose: verbose,
	}, nil
}

// NewRootCommand creates and configures the root cobra command.
func NewRootCommand(deps *Deps) *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "translate-cli",
		Short: "Batch translation client",
		Long: `translate-cli submits batches of sentences to the translation platform,
retrieves results (inline or by polling durable storage), and keeps a local
history of submitted jobs.

Examples:
  translate-cli configure --endpoint https://api.example.com/translate --api-key KEY
  translate-cli translate --source-lang en --target-langs es,fr --text "Hello world"
  translate-cli translate --source-lang en --target-langs es --file sentences.txt
  translate-cli list --limit 5
  translate-cli show 3f2a`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				deps.Verbose = true
				deps.Log = logging.NewCLI(true)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newConfigureCommand(deps),
		newTranslateCommand(deps),
		newStatusCommand(deps),
		newGetStatusCommand(deps),
		newListCommand(deps),
		newShowCommand(deps),
	)

	return rootCmd
}

// Execute runs the CLI with production dependencies.
func Execute() int {
	deps, err := DefaultDeps(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if err := NewRootCommand(deps).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
