package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderSettle renders how far the layout has cooled, like
// "settling [████░░░░]  50%". alpha is the simulation temperature in [0,1];
// a cold layout renders as a full green bar.
func RenderSettle(alpha float64, width int) string {
	pct := 1 - alpha
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	if width < 2 {
		width = 2
	}

	filled := int(pct * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	label := "settled "
	if pct < 0.99 {
		style = StyleYellow
		label = "settling"
	}
	return fmt.Sprintf("%s [%s] %3.0f%%", label, style.Render(bar), pct*100)
}
