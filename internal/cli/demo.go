package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/parleybot/parley/internal/conversation"
	"github.com/parleybot/parley/internal/identity"
)

func init() {
	cmd := &cobra.Command{
		Use:   "demo [script...]",
		Short: "Let identities talk to each other",
		Long:  "Round-robin conversation between identity instances. With no arguments two doctor instances talk, named Therapist and Patient. Each response becomes the next identity's input; the first identity opens with its greeting.",
		Run:   runDemo,
	}

	cmd.Flags().IntP("turns", "t", 24, "Maximum number of turns")
	cmd.Flags().String("seed", "", "Opening utterance fed to the first identity")
	cmd.Flags().String("names", "", "Comma-separated display names, one per script")

	RootCmd.AddCommand(cmd)
}

func runDemo(cmd *cobra.Command, args []string) {
	turns, _ := cmd.Flags().GetInt("turns")
	seed, _ := cmd.Flags().GetString("seed")
	namesStr, _ := cmd.Flags().GetString("names")

	catalog, err := loadCatalog()
	if err != nil {
		exitErr("load scripts", err)
	}

	scripts := args
	names := []string{}
	if len(scripts) == 0 {
		scripts = []string{"doctor", "doctor"}
		names = []string{"Therapist", "Patient"}
	}
	if namesStr != "" {
		names = strings.Split(namesStr, ",")
	}
	if len(names) > 0 && len(names) != len(scripts) {
		exitErr("demo", fmt.Errorf("got %d names for %d scripts", len(names), len(scripts)))
	}

	participants := make([]identity.Identity, 0, len(scripts))
	for i, s := range scripts {
		name := s
		if len(names) > 0 {
			name = strings.TrimSpace(names[i])
		}
		p, err := catalog.NewNamed(s, name)
		if err != nil {
			exitErr("demo", err)
		}
		participants = append(participants, p)
	}

	round := 0
	result, err := conversation.Run(cmd.Context(), participants, conversation.Options{
		Seed:     seed,
		MaxTurns: turns,
		OnTurn: func(t conversation.Turn) {
			if t.Index%len(participants) == 0 {
				round++
				fmt.Printf("****** Round #%d ******\n\n", round)
			}
			fmt.Printf("%s: %s\n", t.Speaker, t.Response)
		},
	})
	if err != nil && !errors.Is(err, conversation.ErrIdentityFailure) {
		exitErr("demo", err)
	}
	fmt.Printf("\n<conversation ended: %s, %d turns>\n", result.Reason, len(result.Turns))
}
