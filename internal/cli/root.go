// Package cli implements the parleychat console commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parleybot/parley/internal/engine"
	"github.com/parleybot/parley/internal/identity"
	"github.com/parleybot/parley/internal/script"
)

var (
	scriptDir string
	traceFlag bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "parleychat",
	Short: "Rule-driven chat identities in your terminal",
	Long:  "Chat with scripted identities or let two of them talk to each other. Scripts are keyword/transform rule sets; extra identities load from YAML files.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&scriptDir, "scripts", "s", "scripts", "Directory of YAML identity scripts loaded in addition to the built-ins")
	RootCmd.PersistentFlags().BoolVar(&traceFlag, "trace", false, "Print the engine path (rule, memory, fallback) of each response to stderr")
}

func loadCatalog() (*identity.Catalog, error) {
	reg := script.NewRegistry()
	if err := reg.LoadDir(scriptDir); err != nil {
		return nil, err
	}
	var opts []identity.CatalogOption
	if traceFlag {
		opts = append(opts, identity.WithSourceObserver(func(src engine.Source) {
			fmt.Fprintf(os.Stderr, "[%s]\n", src)
		}))
	}
	return identity.NewCatalog(reg, opts...)
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
