package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders an upload bar like [████░░░░]  45%. The bar is
// yellow while running and green once it reaches 100.
func RenderProgress(percent, width int) string {
	percent = min(max(percent, 0), 100)
	width = max(width, 2)

	filled := percent * width / 100
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleYellow
	if percent == 100 {
		style = StyleGreen
	}
	return fmt.Sprintf("[%s] %3d%%", style.Render(bar), percent)
}
