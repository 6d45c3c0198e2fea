// agent is the interactive console for exercising the Driver Desk
// conversation loop locally. Records land in a JSON store on disk so a
// test conversation leaves inspectable artifacts.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/joho/godotenv"

	"github.com/fleetline/driver-desk/cmd/mainconfig"
	"github.com/fleetline/driver-desk/internal/appointments"
	"github.com/fleetline/driver-desk/internal/calendar"
	"github.com/fleetline/driver-desk/internal/callbacks"
	appconfig "github.com/fleetline/driver-desk/internal/config"
	"github.com/fleetline/driver-desk/internal/conversation"
	"github.com/fleetline/driver-desk/internal/leads"
	"github.com/fleetline/driver-desk/internal/store"
	"github.com/fleetline/driver-desk/internal/tools"
	"github.com/fleetline/driver-desk/pkg/logging"
)

const greetingPrompt = "Please greet me as a customer calling the Fleetline Driver Desk. Keep it brief and friendly."
const farewellPrompt = "The customer is ending the call. Please give a warm goodbye."

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()

	cal, err := calendar.New()
	if err != nil {
		logger.Error("failed to load business calendar", "error", err)
		os.Exit(1)
	}

	st, err := store.NewJSONStore(cfg.DataDir)
	if err != nil {
		logger.Error("failed to open record store", "error", err)
		os.Exit(1)
	}

	engine := appointments.NewEngine(st.Appointments(), cal, logger)
	leadSvc := leads.NewService(st.Leads(), logger)
	scheduler := callbacks.NewScheduler(st.Callbacks(), cal, logger)
	registry := tools.NewRegistry(engine, leadSvc, scheduler, cal, logger, nil)

	llm, closeLLM, err := buildLLMClient(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build llm client", "error", err)
		os.Exit(1)
	}
	defer closeLLM()

	orchOpts := []conversation.Option{
		conversation.WithSampling(int32(cfg.MaxTokens), float32(cfg.Temperature)),
	}
	if cfg.LLMProvider == "bedrock" && cfg.BedrockModelID != "" {
		orchOpts = append(orchOpts, conversation.WithModel(cfg.BedrockModelID))
	}
	orch := conversation.NewOrchestrator(llm, registry, logger, orchOpts...)

	session := conversation.NewSession("console")

	greeting, err := orch.ProcessTurn(ctx, session, greetingPrompt)
	if err != nil {
		logger.Error("greeting failed", "error", err)
	}
	fmt.Printf("Agent: %s\n\n", greeting)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if isFarewell(input) {
			farewell, err := orch.ProcessTurn(ctx, session, farewellPrompt)
			if err != nil {
				logger.Error("farewell failed", "error", err)
			}
			fmt.Printf("\nAgent: %s\n", farewell)
			break
		}

		reply, err := orch.ProcessTurn(ctx, session, input)
		if err != nil {
			logger.Error("turn failed", "error", err)
		}
		fmt.Printf("\nAgent: %s\n\n", reply)
	}

	fmt.Println("\nThank you for choosing Fleetline!")
}

func isFarewell(input string) bool {
	switch strings.ToLower(input) {
	case "quit", "exit", "bye", "goodbye":
		return true
	}
	return false
}

func buildLLMClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (conversation.LLMClient, func(), error) {
	noop := func() {}
	switch cfg.LLMProvider {
	case "bedrock":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return conversation.NewBedrockLLMClient(bedrockruntime.NewFromConfig(awsCfg)), noop, nil
	case "gemini":
		gemini, err := conversation.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			return nil, nil, err
		}
		return gemini, func() { _ = gemini.Close() }, nil
	default:
		logger.Info("no llm provider configured, using the scripted stub")
		return conversation.NewStubLLMClient(), noop, nil
	}
}
