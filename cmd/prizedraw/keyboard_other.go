//go:build !linux && !darwin

package main

import (
	"bufio"
	"context"
	"os"

	"golang.org/x/term"
)

// listenForKeyboard falls back to line-based input: type a key, then Enter
func listenForKeyboard(ctx context.Context, s *shortcuts) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return
	}
	reader := bufio.NewReader(os.Stdin)
	for ctx.Err() == nil {
		key, err := reader.ReadByte()
		if err != nil {
			return
		}
		if key == '\n' || key == '\r' {
			continue
		}
		if s.handle(ctx, key) {
			return
		}
	}
}
