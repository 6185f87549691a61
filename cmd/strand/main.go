package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/strandhtml/strand/lib/lint"
)

const version = "0.1.0"

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "lint":
		if err := runLint(log, args); err != nil {
			log.Error().Err(err).Msg("lint failed")
			os.Exit(1)
		}
	case "version":
		fmt.Printf("strand version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`strand - schema-driven HTML components

Usage:
  strand <command> [arguments]

Commands:
  lint [packages]   Check component struct tags (e.g., ./... or ./components/...)
  version           Print version
  help              Show this help

Examples:
  strand lint ./...              Check all packages
  strand lint ./components       Check a specific package`)
}

func runLint(log zerolog.Logger, args []string) error {
	patterns := args
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	checker := lint.New()
	issues, err := checker.Check(patterns...)
	if err != nil {
		return err
	}

	for _, issue := range issues {
		fmt.Println(issue)
	}
	if len(issues) > 0 {
		log.Info().Int("issues", len(issues)).Msg("component definitions need attention")
		os.Exit(1)
	}
	return nil
}
