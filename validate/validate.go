// Command validate checks Gomoku Duel YAML configuration files. It checks:
//   - YAML syntax and unknown keys
//   - Bind address format
//   - Board dimensions and a win length that fits the board
//   - Relay and transport limits
//   - Log level names
//
// Arguments are files or directories; directories are scanned for *.yaml and
// *.yml files. With no arguments the configs directory is scanned.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/mcp-training/gomokuduel/game/config"
)

// ValidationResult captures the outcome of validating a single file.
// Notes holds informational messages that do not make a file invalid.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Notes  []string
}

// validateConfig loads and validates a single configuration file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	cfg, err := config.Load(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = splitErrors(err)
		return result
	}

	result.Notes = append(result.Notes,
		fmt.Sprintf("✓ Listens on %s", cfg.Addr),
		fmt.Sprintf("✓ Board %s", cfg.Board))
	result.Notes = append(result.Notes, advise(cfg)...)
	return result
}

// advise reports settings that are valid but probably unintended
func advise(cfg *config.Config) []string {
	var notes []string

	shorter := min(cfg.Board.Height, cfg.Board.Width)
	if cfg.Board.WinLength > shorter {
		notes = append(notes, fmt.Sprintf("win length %d is longer than the short side %d: only lines along the long side can win",
			cfg.Board.WinLength, shorter))
	}
	if cfg.Relay.ReceiveTimeout == 0 {
		notes = append(notes, "relay.receive_timeout is 0: a silent opponent keeps a player waiting forever")
	}
	if cfg.Relay.Capacity < 2 {
		notes = append(notes, "relay.capacity below 2 leaves no room for a final result after a move")
	}
	if cfg.Transport.PongWait <= cfg.Transport.WriteWait {
		notes = append(notes, fmt.Sprintf("transport.pong_wait %s does not exceed write_wait %s",
			cfg.Transport.PongWait, cfg.Transport.WriteWait))
	}
	return notes
}

// splitErrors turns a joined validation error into one message per problem
func splitErrors(err error) []string {
	text := err.Error()
	if errors.Is(err, config.ErrInvalidConfig) {
		if _, after, found := strings.Cut(text, config.ErrInvalidConfig.Error()+": "); found {
			text = after
		}
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// collectFiles expands directories into the YAML files they contain
func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		for _, pattern := range []string{"*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(arg, pattern))
			if err != nil {
				return nil, err
			}
			files = append(files, matches...)
		}
	}
	sort.Strings(files)
	return files, nil
}

// main validates each file, printing a concise report and exiting with
// non-zero status if any are invalid.
func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		args = []string{"configs"}
	}

	files, err := collectFiles(args)
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Println("No configuration files found")
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, note := range result.Notes {
				fmt.Println("  " + note)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Println("  ❌ " + err)
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
