package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"triage-assist/internal/config"
	"triage-assist/internal/oracle"
	"triage-assist/internal/service"
)

// Cliente de terminal: una conversacion local contra el oraculo configurado.
func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	oracleURL := os.Getenv("ORACLE_URL")
	timeout := 30 * time.Second
	if raw := os.Getenv("ORACLE_TIMEOUT"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatalf("ORACLE_TIMEOUT invalido: %v", err)
		}
		timeout = parsed
	}
	if cfg, err := config.LoadConfig(); err == nil {
		oracleURL = cfg.OracleURL
		timeout = cfg.OracleTimeout
	}

	logger := zap.NewExample()
	defer logger.Sync()

	classifier := oracle.NewHTTPClient(oracleURL, timeout, logger)
	conv := service.NewConversation(uuid.NewString(), classifier, nil, logger)

	fmt.Println("===== MedAssist =====")
	fmt.Println("Comandos: 'historial' reimprime la conversacion, 'salir' termina.")
	fmt.Print(renderLog(conv.Messages()))

	for {
		fmt.Print("Tu > ")
		text, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		switch strings.ToLower(strings.TrimSpace(text)) {
		case "salir":
			return
		case "historial":
			fmt.Print(renderLog(conv.Messages()))
			continue
		}

		turn, err := submitWithSpinner(ctx, conv, strings.TrimRight(text, "\r\n"))
		if err != nil {
			if errors.Is(err, service.ErrEmptySubmission) {
				fmt.Println("Describe tus sintomas antes de enviar.")
				continue
			}
			fmt.Printf("Error: %v\n", err)
			continue
		}
		fmt.Print(renderMessage(turn.Assistant))
	}
}

// submitWithSpinner bloquea la entrada mientras el turno esta en vuelo.
func submitWithSpinner(ctx context.Context, conv *service.Conversation, text string) (service.Turn, error) {
	type result struct {
		turn service.Turn
		err  error
	}
	done := make(chan result, 1)
	go func() {
		turn, err := conv.Submit(ctx, text)
		done <- result{turn: turn, err: err}
	}()

	frames := []string{"|", "/", "-", "\\"}
	ticker := time.NewTicker(120 * time.Millisecond)
	defer ticker.Stop()
	for i := 0; ; i++ {
		select {
		case res := <-done:
			fmt.Print("\r\033[K")
			return res.turn, res.err
		case <-ticker.C:
			if conv.InFlight() {
				fmt.Printf("\r%s Analyzing your symptoms...", frames[i%len(frames)])
			}
		}
	}
}
