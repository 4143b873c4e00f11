// Command pqchat is a small demonstration chat session: it provisions a
// passphrase-sealed keystore and a SQLite message history for a local
// identity, publishes the public key, and exchanges one encrypted message
// with a scratch peer.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	pqchat "github.com/pqchat/e2ee-go"
	"github.com/pqchat/e2ee-go/securestore"
	"github.com/pqchat/e2ee-go/sqlitestore"
)

type config struct {
	Identity     string `env:"PQCHAT_IDENTITY" envDefault:"me"`
	Passphrase   string `env:"PQCHAT_PASSPHRASE,required"`
	DataDir      string `env:"PQCHAT_DATA_DIR" envDefault:".pqchat"`
	DirectoryURL string `env:"PQCHAT_DIRECTORY_URL"`
	APIKey       string `env:"PQCHAT_API_KEY"`
	Debug        bool   `env:"PQCHAT_DEBUG"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pqchat: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger().Level(zerolog.InfoLevel)
	if cfg.Debug {
		log = log.Level(zerolog.DebugLevel)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	secrets, err := securestore.Open(filepath.Join(cfg.DataDir, "secrets"), cfg.Passphrase)
	if err != nil {
		return fmt.Errorf("open secret store: %w", err)
	}

	var directory pqchat.Directory
	if cfg.DirectoryURL != "" {
		directory, err = pqchat.NewHTTPDirectory(cfg.DirectoryURL, cfg.APIKey)
		if err != nil {
			return fmt.Errorf("open directory: %w", err)
		}
		log.Info().Str("url", cfg.DirectoryURL).Msg("using hosted directory")
	} else {
		directory = pqchat.NewMemoryDirectory()
		log.Info().Msg("no directory configured, using in-process directory")
	}

	messages, err := sqlitestore.Open(ctx, filepath.Join(cfg.DataDir, "messages.db"))
	if err != nil {
		return fmt.Errorf("open message store: %w", err)
	}
	defer messages.Close()

	client, err := pqchat.New(cfg.Identity, secrets, directory,
		pqchat.WithLogger(log),
		pqchat.WithMessageStore(messages),
	)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer client.Close()

	if err := client.EnsureKeys(ctx); err != nil {
		return fmt.Errorf("provision keys: %w", err)
	}
	log.Info().Str("identity", cfg.Identity).Msg("keys provisioned and published")

	// A scratch peer so the session has someone to talk to when no hosted
	// directory is configured
	peer, err := pqchat.New("peer", pqchat.NewMemorySecretStore(), directory,
		pqchat.WithLogger(log),
		pqchat.WithMessageStore(messages),
	)
	if err != nil {
		return fmt.Errorf("create peer: %w", err)
	}
	defer peer.Close()
	if err := peer.EnsureKeys(ctx); err != nil {
		return fmt.Errorf("provision peer keys: %w", err)
	}

	fmt.Printf("Type a message to send to %q (empty line to quit):\n", "peer")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			break
		}

		msg, err := client.Send(ctx, "peer", text)
		if err != nil {
			return fmt.Errorf("send: %w", err)
		}
		log.Debug().Str("id", msg.ID).Msg("message sent")

		conversation, err := peer.Conversation(ctx, cfg.Identity)
		if err != nil {
			return fmt.Errorf("load conversation: %w", err)
		}
		last := conversation[len(conversation)-1]
		fmt.Printf("peer decrypted: %s\n", last.Text)
	}
	return scanner.Err()
}
