package cli

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parleybot/parley/internal/conversation"
)

func init() {
	cmd := &cobra.Command{
		Use:   "chat [identity]",
		Short: "Talk to a scripted identity",
		Long:  "Interactive session with one identity. Say quit, goodbye, or bye to leave.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runChat,
	}

	RootCmd.AddCommand(cmd)
}

func runChat(cmd *cobra.Command, args []string) {
	name := "doctor"
	if len(args) > 0 {
		name = args[0]
	}

	catalog, err := loadCatalog()
	if err != nil {
		exitErr("load scripts", err)
	}
	responder, err := catalog.New(name)
	if err != nil {
		exitErr("chat", err)
	}

	ctx := cmd.Context()
	greeting, err := responder.Respond(ctx, conversation.SeedSenderID, "")
	if err != nil {
		exitErr("chat", err)
	}
	fmt.Printf("%s: %s\n", responder.Name(), greeting)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you: ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		line := scanner.Text()
		if conversation.IsStopWord(line, conversation.DefaultStopWords) {
			fmt.Printf("%s: Goodbye\n", responder.Name())
			return
		}
		resp, err := responder.Respond(ctx, conversation.SeedSenderID, line)
		if err != nil {
			exitErr("respond", err)
		}
		fmt.Printf("%s: %s\n", responder.Name(), resp)
	}
}
