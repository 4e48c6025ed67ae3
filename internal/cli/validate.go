package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parleybot/parley/internal/engine"
	"github.com/parleybot/parley/internal/script"
)

func init() {
	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check identity script files",
		Long:  "Parse, validate, and compile each YAML script file, reporting every issue found.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runValidate,
	}

	RootCmd.AddCommand(cmd)
}

func runValidate(cmd *cobra.Command, args []string) {
	failed := false
	for _, path := range args {
		s, err := script.LoadFile(path)
		if err != nil {
			failed = true
			fmt.Printf("%s: %v\n", path, err)
			continue
		}
		if _, err := engine.New(s); err != nil {
			failed = true
			fmt.Printf("%s: %v\n", path, err)
			continue
		}
		fmt.Printf("%s: ok (%s, %d keywords)\n", path, s.Name, len(s.Keywords))
	}
	if failed {
		exitErr("validate", fmt.Errorf("one or more scripts are invalid"))
	}
}
