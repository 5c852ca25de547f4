// Command assistant-demo runs the generation pipeline once from the command
// line, without the HTTP server or the rule store. Useful for trying prompts
// against a real endpoint.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"reglagen/internal/assistant"
	"reglagen/internal/core"
	"reglagen/internal/llm"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Println("usage: assistant-demo \"<mensaje>\"")
		fmt.Println("example: assistant-demo \"valida que el DNI tenga 8 dígitos\"")
		os.Exit(1)
	}
	message := strings.Join(os.Args[1:], " ")

	cfg, err := core.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if cfg.OpenAIAPIKey == "" {
		fmt.Println("OPENAI_API_KEY not set")
		fmt.Println("set it with: export OPENAI_API_KEY=sk-...")
		os.Exit(1)
	}

	client, err := llm.NewClient(&llm.Config{
		APIKey:                 cfg.OpenAIAPIKey,
		BaseURL:                cfg.OpenAIBaseURL,
		Model:                  cfg.OpenAIModel,
		Temperature:            cfg.OpenAITemperature,
		MaxOutputTokens:        cfg.OpenAIMaxOutputTokens,
		Timeout:                cfg.OpenAITimeout,
		SupportsResponseFormat: cfg.SupportsResponseFormat,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "client: %v\n", err)
		os.Exit(1)
	}

	asst := assistant.New(client, core.NewLogger(cfg.LogLevel))

	def, err := asst.GenerateRuleDefinition(context.Background(), message, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate: %v\n", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
	if def.NeedsReview {
		fmt.Fprintln(os.Stderr, "warning: Header was synthesized from the data type; review before saving")
	}
}
