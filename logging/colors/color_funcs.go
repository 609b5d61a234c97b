package colors

import "fmt"

// ColorFunc is an alias type for a coloring function that accepts anything and returns a colorized string
type ColorFunc = func(s any) string

func init() {
	EnableColor()
}

// Reset returns the input as a plain string. It resets the color context of a log message.
func Reset(s any) string {
	return fmt.Sprintf("%v", s)
}

// Bold returns a bolded string of the provided input
func Bold(s any) string {
	return Colorize(s, BOLD)
}

// boldColor wraps a color in bold.
func boldColor(c Color) ColorFunc {
	return func(s any) string {
		return Colorize(Colorize(s, c), BOLD)
	}
}

var (
	// RedBold colors errors and panics.
	RedBold = boldColor(RED)
	// GreenBold colors informational markers.
	GreenBold = boldColor(GREEN)
	// YellowBold colors warnings.
	YellowBold = boldColor(YELLOW)
	// BlueBold colors debug output.
	BlueBold = boldColor(BLUE)
	// CyanBold colors trace output.
	CyanBold = boldColor(CYAN)
)
