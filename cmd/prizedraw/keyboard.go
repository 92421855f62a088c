package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/abrezinsky/prizedraw/internal/logger"
	"github.com/abrezinsky/prizedraw/internal/models"
)

// statusSource is the slice of the lottery service the shortcuts need
type statusSource interface {
	Status(ctx context.Context) (*models.LotteryStatus, error)
}

// shortcuts maps single key presses to operator actions
type shortcuts struct {
	log     *logger.SlogLogger
	lottery statusSource
	quit    func()
}

// handle runs the action for key and reports whether input should stop
func (s *shortcuts) handle(ctx context.Context, key byte) bool {
	switch strings.ToLower(string(key)) {
	case "s":
		s.printStatus(ctx)
	case "h":
		if s.log.IsHTTPLoggingEnabled() {
			s.log.DisableHTTPLogging()
			fmt.Printf("%sHTTP logging disabled%s\n", yellow, reset)
		} else {
			s.log.EnableHTTPLogging()
			fmt.Printf("%sHTTP logging enabled%s\n", green, reset)
		}
	case "l":
		s.cycleLogLevel()
	case "?":
		printKeyboardHelp()
	case "q", "\x03": // Ctrl+C arrives as a byte in raw mode
		fmt.Printf("%sShutting down server...%s\n", yellow, reset)
		s.quit()
		return true
	}
	return false
}

// cycleLogLevel cycles through debug -> info -> warn -> error
func (s *shortcuts) cycleLogLevel() {
	next := map[string]string{
		"DEBUG": "info",
		"INFO":  "warn",
		"WARN":  "error",
		"ERROR": "debug",
	}[s.log.GetLevel().String()]
	if next == "" {
		next = "info"
	}
	s.log.SetLevel(logger.ParseLevel(next))
	fmt.Printf("%sLog level: %s%s%s\n", green, yellow, next, reset)
}

func (s *shortcuts) printStatus(ctx context.Context) {
	status, err := s.lottery.Status(ctx)
	if err != nil {
		fmt.Printf("%sError reading status: %v%s\n", red, err, reset)
		return
	}

	fmt.Printf("\n%s%s  Round %d (%s)%s\n", bold, green, status.CurrentEpoch, status.EpochStatus, reset)
	for _, a := range status.Awards {
		fmt.Printf("    %sL%d%s %-20s %d/%d left\n", cyan, a.Level, reset, a.Name, a.RemainingCount, a.Count)
	}
	d := status.Distribution
	fmt.Printf("    participants %d, winners %d, wins 0/1/2/3: %d/%d/%d/%d\n\n",
		d.Total, status.TotalWinners, d.ZeroWins, d.OneWin, d.TwoWins, d.ThreeWins)
}

// printKeyboardHelp displays all available keyboard shortcuts
func printKeyboardHelp() {
	fmt.Printf("\n%s%s  Keyboard Shortcuts:%s\n", bold, green, reset)
	fmt.Printf("    %ss%s      - Print lottery status\n", cyan, reset)
	fmt.Printf("    %sh%s      - Toggle HTTP request logging\n", cyan, reset)
	fmt.Printf("    %sl%s      - Cycle log level (debug → info → warn → error)\n", cyan, reset)
	fmt.Printf("    %sq%s      - Quit server\n", cyan, reset)
	fmt.Printf("    %s?%s      - Show this help\n\n", cyan, reset)
}
