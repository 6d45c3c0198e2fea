// llmtest is a manual smoke test for the configured LLM providers. It
// sends a short Driver Desk conversation, with the tool schemas offered,
// and prints what came back.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/joho/godotenv"

	"github.com/fleetline/driver-desk/cmd/mainconfig"
	appconfig "github.com/fleetline/driver-desk/internal/config"
	"github.com/fleetline/driver-desk/internal/conversation"
	"github.com/fleetline/driver-desk/internal/tools"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := appconfig.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	req := conversation.LLMRequest{
		System: []string{"You are a friendly vehicle-leasing assistant. Keep responses brief."},
		Messages: []conversation.ChatMessage{
			{Role: conversation.ChatRoleUser, Content: "Hi, I manage a delivery fleet and I'm looking at electric vans."},
			{Role: conversation.ChatRoleAssistant, Content: "We lease a full range of electric vans with charging support included. Would you like to book a fleet consultation?"},
			{Role: conversation.ChatRoleUser, Content: "Yes please, sometime next week."},
		},
		Tools:       tools.Schemas(),
		MaxTokens:   300,
		Temperature: 0.7,
	}

	fmt.Println("LLM Provider Smoke Test")

	if cfg.GeminiAPIKey != "" {
		fmt.Println("\n[1] Gemini...")
		client, err := conversation.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			fmt.Printf("    create client: %v\n", err)
		} else {
			run(ctx, client, req)
			_ = client.Close()
		}
	} else {
		fmt.Println("\n[1] Skipping Gemini (GEMINI_API_KEY not set)")
	}

	if cfg.BedrockModelID != "" {
		fmt.Println("\n[2] Bedrock...")
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			fmt.Printf("    aws config: %v\n", err)
			os.Exit(1)
		}
		bedrockReq := req
		bedrockReq.Model = cfg.BedrockModelID
		run(ctx, conversation.NewBedrockLLMClient(bedrockruntime.NewFromConfig(awsCfg)), bedrockReq)
	} else {
		fmt.Println("\n[2] Skipping Bedrock (BEDROCK_MODEL_ID not set)")
	}
}

func run(ctx context.Context, client conversation.LLMClient, req conversation.LLMRequest) {
	start := time.Now()
	resp, err := client.Complete(ctx, req)
	if err != nil {
		fmt.Printf("    error: %v\n", err)
		return
	}
	fmt.Printf("    response (%v):\n", time.Since(start).Round(time.Millisecond))
	if resp.Text != "" {
		fmt.Printf("    %s\n", resp.Text)
	}
	for _, call := range resp.ToolCalls {
		fmt.Printf("    tool call: %s %s\n", call.Name, string(call.Args))
	}
	fmt.Printf("    tokens: in=%d out=%d\n", resp.Usage.InputTokens, resp.Usage.OutputTokens)
}
