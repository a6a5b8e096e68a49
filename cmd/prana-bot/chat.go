package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/prana-whatsapp-bot/internal/usecase"
)

var (
	chatUser   string
	chatScript bool
)

// quickScript --script bilan yuboriladigan xabarlar
var quickScript = []string{
	"hola",
	"que tienen en el menu",
	"jugos cold pressed",
	"cuanto cuesta el citrus",
	"que shots tienen",
	"cuales son los horarios",
	"gracias",
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the bot from the terminal",
	Long: `Simulates a WhatsApp conversation locally. Type 'salir' to finish.

With --script a fixed set of sample messages is sent instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := buildApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		if chatScript {
			runScript(ctx, a.dispatcher, out, chatUser, quickScript)
			return nil
		}
		return runChat(ctx, a.dispatcher, os.Stdin, out, chatUser)
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatUser, "user", "test_user_123", "user id for the conversation")
	chatCmd.Flags().BoolVar(&chatScript, "script", false, "send the sample messages and exit")
}

// isExit suhbatni tugatuvchi so'zlar
func isExit(s string) bool {
	switch strings.ToLower(s) {
	case "salir", "exit", "quit":
		return true
	}
	return false
}

// runChat interaktiv konsol suhbati
func runChat(ctx context.Context, d usecase.Dispatcher, in io.Reader, out io.Writer, userID string) error {
	fmt.Fprintln(out, "🥤 PRANA JUICE BAR - WHATSAPP BOT TEST")
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintln(out, "Escribe 'salir' para terminar")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\n👤 Tú: ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if isExit(line) {
			fmt.Fprintln(out, "\n🤖 Prana: ¡Gracias por visitar Prana Juice Bar! 🌿")
			return nil
		}
		if line == "" {
			continue
		}
		fmt.Fprintf(out, "\n🤖 Prana: %s\n", d.Process(ctx, userID, line))

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return scanner.Err()
}

// runScript oldindan belgilangan xabarlarni yuborish
func runScript(ctx context.Context, d usecase.Dispatcher, out io.Writer, userID string, messages []string) {
	for i, msg := range messages {
		fmt.Fprintf(out, "\n%d. 👤 Tú: %s\n", i+1, msg)
		fmt.Fprintf(out, "🤖 Prana: %s\n", d.Process(ctx, userID, msg))
	}
}
