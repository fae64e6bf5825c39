// EdenCore is a cyberpunk escape adventure: hack, fight, and search your
// way out of a simulated world before the trace completes.
// Usage: edencore [--version] [--plain] [--script <file>] [--seed <n>] [content_directory]
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/nathoo/edencore/cli"
	"github.com/nathoo/edencore/content"
	"github.com/nathoo/edencore/engine"
	"github.com/nathoo/edencore/narrator"
	"github.com/nathoo/edencore/session"
	"github.com/nathoo/edencore/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// config is read from the environment (and .env, if present).
type config struct {
	NarratorURL     string        `env:"NARRATOR_URL"`
	NarratorTimeout time.Duration `env:"NARRATOR_TIMEOUT" envDefault:"30s"`
	DBPath          string        `env:"EDENCORE_DB"`
}

func main() {
	plain := false
	var contentDir string
	var scriptFile string
	var seed int64

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("edencore %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--seed":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--seed requires a number\n")
				os.Exit(1)
			}
			i++
			n, err := strconv.ParseInt(args[i], 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "--seed: %v\n", err)
				os.Exit(1)
			}
			seed = n
		case "--script":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--script requires a file path\n")
				os.Exit(1)
			}
			i++
			scriptFile = args[i]
		default:
			if contentDir == "" {
				contentDir = args[i]
			}
		}
	}

	// .env is optional.
	_ = godotenv.Load()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading environment: %v\n", err)
		os.Exit(1)
	}

	// Load the content pack: a directory of Lua files, or the embedded
	// campaign when none is given.
	var pack *content.Pack
	var err error
	if contentDir != "" {
		pack, err = content.Load(contentDir)
	} else {
		pack, err = content.LoadDefault()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading content: %v\n", err)
		os.Exit(1)
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	eng := engine.New(pack, seed)
	eng.Log = log.New(os.Stderr, "edencore: ", log.LstdFlags)

	if cfg.NarratorURL != "" {
		nc := narrator.NewHTTPClient(cfg.NarratorURL)
		nc.Timeout = cfg.NarratorTimeout
		nc.Log = eng.Log
		eng.Narrator = nc
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		home, _ := os.UserHomeDir()
		dbPath = filepath.Join(home, ".edencore", "sessions.db")
	}
	saves, err := session.Open(dbPath)
	if err != nil {
		// Playable without persistence.
		fmt.Fprintf(os.Stderr, "Warning: saves unavailable: %v\n", err)
		saves = nil
	} else {
		defer saves.Close()
	}

	ctx := context.Background()

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		fmt.Printf("%s v%s by %s\n\n", pack.Title, pack.Version, pack.Author)
		c := cli.New(eng, saves)
		c.In = f
		c.EchoInput = true
		c.Run(ctx)
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		fmt.Printf("%s v%s by %s\n\n", pack.Title, pack.Version, pack.Author)
		c := cli.New(eng, saves)
		c.Run(ctx)
		return
	}

	if err := tui.Run(eng, saves); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
