package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/linguakit/linguakit/internal/llm"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the configured LLM provider",
}

var llmStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the resolved provider configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := llm.FromEnv()

		fmt.Printf("Provider:  %s\n", cfg.Provider)
		fmt.Printf("Model:     %s\n", modelFor(cfg))
		fmt.Printf("API key:   %s\n", keyStatus(cfg))
		fmt.Printf("Timeout:   %s\n", cfg.Timeout)
		fmt.Printf("Retries:   %d attempts, %s to %s backoff\n",
			cfg.Retry.MaxAttempts, cfg.Retry.InitialWait, cfg.Retry.MaxWait)

		if err := cfg.Validate(); err != nil {
			fmt.Printf("Status:    not usable (%v)\n", err)
			return nil
		}
		fmt.Println("Status:    ready")
		return nil
	},
}

var llmPingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Send a minimal request to the configured provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := llm.FromEnv()
		provider, err := llm.New(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("build provider: %w", err)
		}

		start := time.Now()
		resp, err := provider.Generate(llm.WithPurpose(cmd.Context(), "ping"), llm.Request{
			Messages:  []llm.Message{{Role: llm.RoleUser, Content: `Reply with the JSON object {"ok":true}.`}},
			MaxTokens: 32,
		})
		if err != nil {
			return fmt.Errorf("ping %s: %w", cfg.Provider, err)
		}

		fmt.Printf("Model:     %s\n", resp.Model)
		fmt.Printf("Latency:   %s\n", time.Since(start).Round(time.Millisecond))
		fmt.Printf("Tokens:    %d in / %d out\n", resp.Usage.InputTokens, resp.Usage.OutputTokens)
		fmt.Printf("Response:  %s\n", string(resp.Content))
		return nil
	},
}

func init() {
	llmCmd.AddCommand(llmStatusCmd)
	llmCmd.AddCommand(llmPingCmd)
}

func modelFor(cfg llm.Config) string {
	switch cfg.Provider {
	case "openai":
		return cfg.OpenAI.Model
	case "gemini":
		return cfg.Gemini.Model
	case "mock":
		return "mock"
	default:
		return cfg.Anthropic.Model
	}
}

func keyStatus(cfg llm.Config) string {
	switch cfg.Provider {
	case "anthropic":
		return describeKey(cfg.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	case "openai":
		return describeKey(cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	case "gemini":
		return describeKey(cfg.Gemini.APIKey, "GEMINI_API_KEY")
	default:
		return "not required"
	}
}

func describeKey(key, envVar string) string {
	if key == "" {
		return fmt.Sprintf("missing (set %s)", envVar)
	}
	return "set"
}
