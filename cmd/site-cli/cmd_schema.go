package main

import (
	"github.com/spf13/cobra"

	"github.com/maisonbelle/salon-site/internal/domain/chatbot"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print JSON Schemas for configuration files",
}

var schemaKnowledgeBaseCmd = &cobra.Command{
	Use:   "knowledge-base",
	Short: "JSON Schema of the chatbot knowledge base YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		schema, err := chatbot.Schema()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if _, err := out.Write(schema); err != nil {
			return err
		}
		_, err = out.Write([]byte("\n"))
		return err
	},
}

func init() {
	schemaCmd.AddCommand(schemaKnowledgeBaseCmd)
}
