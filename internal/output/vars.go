package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))  // green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14")) // cyan
)

// digest line colors rotate so consecutive algorithms are distinguishable
var digestStyles = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("12")), // blue
	lipgloss.NewStyle().Foreground(lipgloss.Color("9")),  // red
	lipgloss.NewStyle().Foreground(lipgloss.Color("13")), // purple
	lipgloss.NewStyle().Foreground(lipgloss.Color("37")), // dark green
}

func PrintSuccess(w io.Writer, text string) {
	fmt.Fprintln(w, successStyle.Render(text))
}
func PrintError(w io.Writer, text string) {
	fmt.Fprintln(w, errorStyle.Render(text))
}
func PrintWarning(w io.Writer, text string) {
	fmt.Fprintln(w, warningStyle.Render(text))
}
func PrintInfo(w io.Writer, text string) {
	fmt.Fprintln(w, infoStyle.Render(text))
}

// PrintDigest writes "ALGO: hex" for the index-th requested algorithm.
func PrintDigest(w io.Writer, index int, algorithm, hexDigest string) {
	style := digestStyles[index%len(digestStyles)]
	fmt.Fprintln(w, style.Render(fmt.Sprintf("%s: %s", DisplayAlgorithm(algorithm), hexDigest)))
}
