// Command chat is a terminal client for trying the assistant without the
// HTTP server: type an utterance, read the reply.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/wolfman30/voicebook/internal/assistant"
	"github.com/wolfman30/voicebook/internal/chat"
	appconfig "github.com/wolfman30/voicebook/internal/config"
	"github.com/wolfman30/voicebook/internal/session"
	"github.com/wolfman30/voicebook/pkg/logging"
)

func main() {
	cfg := appconfig.Load()
	logger := logging.NewText(cfg.LogLevel)

	engine := assistant.New(assistant.WithLogger(logger))
	service := chat.NewService(engine, session.NewMemoryStore(), logger)

	const sessionID = "terminal"
	ctx := context.Background()

	fmt.Println("voicebook assistant. Type an utterance, or \"quit\" to exit.")
	fmt.Print("> ")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "quit" || line == "exit" {
			break
		}

		out, err := service.Message(ctx, sessionID, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			fmt.Print("> ")
			continue
		}

		fmt.Println(out.Reply)
		fmt.Print("> ")
	}
}
