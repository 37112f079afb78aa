package ui

import (
	"fmt"
	"io"
	"os"

	"docketlabeler/pkg/models"
)

const logo = `
    ╔══════════════════════════════════════╗
    ║   D O C K E T   L A B E L E R        ║
    ║   docket entry classification tool   ║
    ╚══════════════════════════════════════╝
`

// Color is an SGR parameter
type Color string

const (
	ColorCyan   Color = "36"
	ColorYellow Color = "33"
	ColorRed    Color = "31"
	ColorGreen  Color = "32"
	ColorDim    Color = "2"
)

// Out receives everything the Print helpers write
var Out io.Writer = os.Stdout

// ColorEnabled turns ANSI colors on or off. NO_COLOR disables them.
var ColorEnabled = os.Getenv("NO_COLOR") == ""

// Paint wraps text in the escape codes for c
func Paint(c Color, text string) string {
	if !ColorEnabled || text == "" {
		return text
	}
	return "\033[" + string(c) + "m" + text + "\033[0m"
}

// DecisionColor is the color a labeling decision is reported in: typed
// labels stand out, reused ones are quieter
func DecisionColor(d models.Decision) Color {
	switch d {
	case models.DecisionHuman:
		return ColorGreen
	case models.DecisionMemory:
		return ColorCyan
	default:
		return ColorDim
	}
}

func PrintLogo() {
	fmt.Fprint(Out, Paint(ColorCyan, logo))
}

// PrintError prints msg, followed by err when it is not nil
func PrintError(msg string, err error) {
	if err != nil {
		msg += ": " + err.Error()
	}
	fmt.Fprintln(Out, Paint(ColorRed, msg))
}

func PrintSuccess(msg string) {
	fmt.Fprintln(Out, Paint(ColorGreen, msg))
}

func PrintWarning(msg string) {
	fmt.Fprintln(Out, Paint(ColorYellow, msg))
}

// PrintInfo prints a name/value pair
func PrintInfo(name, value string) {
	fmt.Fprintf(Out, "%s: %s\n", Paint(ColorCyan, name), Paint(ColorYellow, value))
}
