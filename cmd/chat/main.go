package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Niloux/chat-module/internal/chat"
	"github.com/Niloux/chat-module/internal/config"
	"github.com/Niloux/chat-module/internal/db"
	"github.com/Niloux/chat-module/internal/llm"
	"github.com/Niloux/chat-module/internal/models"
	"go.uber.org/zap"
)

const defaultSystemPrompt = "You are a helpful assistant."

const helpText = `
Available commands:
  /help        - show this help
  /quit        - exit
  /model       - toggle between deepseek-chat and deepseek-reasoner
  /prompt      - set the system prompt, e.g. /prompt You are a helpful assistant
  /newprompt   - save a prompt template, e.g. /newprompt assistant You are a helpful assistant
  /prompts     - list saved prompt templates
  /useprompt   - apply a prompt template, e.g. /useprompt 1
  /history     - show the conversation transcript
  /search      - full-text search the transcript, e.g. /search weather
  /tokens      - estimate tokens in the next request
  /new         - start a new conversation (optional template id, e.g. /new 1)
  /clear       - clear the screen
`

func main() {
	configFile := flag.String("config", "", "config file path")
	dbPath := flag.String("db", "", "database file path")
	model := flag.String("model", "", "model to use")
	username := flag.String("username", "", "username")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *model != "" {
		cfg.Model = *model
	}
	if *username != "" {
		cfg.Username = *username
	}
	if !llm.IsKnownModel(cfg.Model) {
		logger.Fatal("unknown model",
			zap.String("model", cfg.Model),
			zap.Strings("known", llm.KnownModels()))
	}

	database, err := db.New(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to initialize database",
			zap.Error(err),
			zap.String("dbPath", cfg.DBPath))
	}

	session := chat.NewSession(database, cfg.BaseURL, logger)
	defer session.Close()

	stdin := bufio.NewScanner(os.Stdin)

	userID, err := bootstrapUser(session, stdin, cfg)
	if err != nil {
		logger.Fatal("failed to set up user", zap.Error(err))
	}

	convID, err := session.StartConversation(userID, "CLI chat", cfg.Model, defaultSystemPrompt)
	if err != nil {
		logger.Fatal("failed to create conversation", zap.Error(err))
	}

	fmt.Print(helpText)
	fmt.Printf("Current model: %s\n\n", cfg.Model)

	repl(session, stdin, userID, convID, cfg.Model)
}

// bootstrapUser registers the configured username on first run, or refreshes
// the stored API key when the configured one differs.
func bootstrapUser(session *chat.Session, stdin *bufio.Scanner, cfg *config.Config) (int64, error) {
	user, err := session.GetUser(cfg.Username)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return 0, err
	}

	if user != nil {
		if cfg.APIKey != "" && cfg.APIKey != user.APIKey {
			if err := session.UpdateAPIKey(user.ID, cfg.APIKey); err != nil {
				return 0, err
			}
		}
		return user.ID, nil
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		fmt.Print("Enter DeepSeek API key: ")
		if !stdin.Scan() {
			return 0, errors.New("no API key provided")
		}
		apiKey = strings.TrimSpace(stdin.Text())
	}
	return session.Register(cfg.Username, apiKey)
}

func repl(session *chat.Session, stdin *bufio.Scanner, userID, convID int64, model string) {
	ctx := context.Background()

	for {
		fmt.Print("User: ")
		if !stdin.Scan() {
			fmt.Println()
			return
		}
		input := strings.TrimSpace(stdin.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			cmd, arg, _ := strings.Cut(input, " ")
			arg = strings.TrimSpace(arg)

			switch strings.ToLower(cmd) {
			case "/quit":
				fmt.Println("Bye!")
				return

			case "/help":
				fmt.Print(helpText)

			case "/model":
				if model == llm.ModelChat {
					model = llm.ModelReasoner
				} else {
					model = llm.ModelChat
				}
				if _, err := session.UpdateModel(convID, model); err != nil {
					fmt.Printf("Error: %v\n", err)
					continue
				}
				fmt.Printf("Switched to model: %s\n", model)

			case "/prompt":
				if arg == "" {
					fmt.Println("Usage: /prompt <system prompt>")
					continue
				}
				if err := session.SetSystemPrompt(convID, arg); err != nil {
					fmt.Printf("Error: %v\n", err)
					continue
				}
				fmt.Printf("System prompt set: %s\n", arg)

			case "/newprompt":
				name, content, ok := strings.Cut(arg, " ")
				if !ok {
					fmt.Println("Usage: /newprompt <name> <content>")
					continue
				}
				id, err := session.SavePrompt(userID, name, strings.TrimSpace(content))
				if err != nil {
					fmt.Printf("Error: %v\n", err)
					continue
				}
				fmt.Printf("Saved prompt template %q (ID: %d)\n", name, id)

			case "/prompts":
				prompts, err := session.Prompts(userID)
				if err != nil {
					fmt.Printf("Error: %v\n", err)
					continue
				}
				if len(prompts) == 0 {
					fmt.Println("No prompt templates yet; create one with /newprompt")
					continue
				}
				for _, p := range prompts {
					fmt.Printf("ID: %d, Name: %s\nContent: %s\n%s\n", p.ID, p.Name, p.Content, strings.Repeat("-", 40))
				}

			case "/useprompt":
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					fmt.Println("Usage: /useprompt <template id>")
					continue
				}
				tmpl, err := session.GetPrompt(id)
				if err != nil {
					fmt.Printf("Error: %v\n", err)
					continue
				}
				if err := session.SetSystemPrompt(convID, tmpl.Content); err != nil {
					fmt.Printf("Error: %v\n", err)
					continue
				}
				fmt.Printf("Using prompt template: %s\n", tmpl.Name)

			case "/history":
				history, err := session.History(convID)
				if err != nil {
					fmt.Printf("Error: %v\n", err)
					continue
				}
				printTranscript(history)

			case "/search":
				if arg == "" {
					fmt.Println("Usage: /search <query>")
					continue
				}
				matches, err := session.Search(convID, arg)
				if err != nil {
					fmt.Printf("Error: %v\n", err)
					continue
				}
				if len(matches) == 0 {
					fmt.Println("No matches.")
					continue
				}
				printTranscript(matches)

			case "/tokens":
				projection, err := session.Projection(convID)
				if err != nil {
					fmt.Printf("Error: %v\n", err)
					continue
				}
				fmt.Printf("Next request: %d messages, ~%d tokens\n", len(projection), llm.CountTokens(projection))

			case "/new":
				var newID int64
				var err error
				if arg != "" {
					tmplID, parseErr := strconv.ParseInt(arg, 10, 64)
					if parseErr != nil {
						fmt.Println("Usage: /new [template id]")
						continue
					}
					newID, err = session.StartConversationWithPrompt(userID, "CLI chat", model, tmplID)
				} else {
					newID, err = session.StartConversation(userID, "CLI chat", model, defaultSystemPrompt)
				}
				if err != nil {
					fmt.Printf("Error: %v\n", err)
					continue
				}
				convID = newID
				fmt.Println("Started a new conversation.")

			case "/clear":
				fmt.Print("\033[2J\033[H")
				fmt.Printf("Current model: %s\n", model)

			default:
				fmt.Printf("Unknown command: %s (try /help)\n", cmd)
			}
			continue
		}

		reply, err := session.Send(ctx, userID, convID, input)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		if reply.Reasoning != "" {
			fmt.Printf("\nAI (reasoning):\n%s\n\n", reply.Reasoning)
		}
		fmt.Printf("AI: %s\n", reply.Content)
	}
}

func printTranscript(messages []models.Message) {
	fmt.Println()
	for _, msg := range messages {
		switch msg.Role {
		case models.RoleSystem:
			fmt.Printf("System: %s\n", msg.Content)
		case models.RoleUser:
			fmt.Printf("User: %s\n", msg.Content)
		case models.RoleAssistant:
			if msg.Reasoning != "" {
				fmt.Printf("AI (reasoning): %s\n", msg.Reasoning)
			}
			fmt.Printf("AI: %s\n", msg.Content)
		}
	}
	fmt.Println()
}
