package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maisonbelle/salon-site/internal/domain/chatbot"
)

var chatbotCmd = &cobra.Command{
	Use:   "chatbot",
	Short: "Try and check the chatbot knowledge base",
}

var chatbotAskCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Match a message against the knowledge base",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runChatbotAsk,
}

var chatbotValidateCmd = &cobra.Command{
	Use:   "validate <file.yaml>",
	Short: "Validate a knowledge base file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kb, err := chatbot.LoadKnowledgeBase(args[0])
		if err != nil {
			return err
		}
		if _, err := chatbot.NewMatcher(kb); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d entries)\n", args[0], len(kb.Entries))
		return nil
	},
}

func init() {
	chatbotCmd.AddCommand(chatbotAskCmd)
	chatbotCmd.AddCommand(chatbotValidateCmd)

	chatbotAskCmd.Flags().String("kb", "", "Knowledge base file (defaults to CHATBOT_KNOWLEDGE_BASE_PATH, then the built-in one)")
}

func runChatbotAsk(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("kb")
	if path == "" {
		path = os.Getenv("CHATBOT_KNOWLEDGE_BASE_PATH")
	}

	kb := chatbot.DefaultKnowledgeBase()
	if path != "" {
		loaded, err := chatbot.LoadKnowledgeBase(path)
		if err != nil {
			return err
		}
		kb = loaded
	}

	matcher, err := chatbot.NewMatcher(kb)
	if err != nil {
		return err
	}

	result := matcher.Match(strings.Join(args, " "))
	out := cmd.OutOrStdout()
	if result.Matched {
		fmt.Fprintf(out, "entry: %s (%d keyword hits)\n", result.EntryID, result.Hits)
	} else {
		fmt.Fprintln(out, "entry: none (fallback)")
	}
	fmt.Fprintln(out, result.Reply)
	return nil
}
