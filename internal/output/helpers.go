package output

import (
	"os"
	"strings"

	"golang.org/x/term"
)

func DisplayAlgorithm(name string) string {
	return strings.ToUpper(name)
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // Default fallback width
	}
	return width
}
