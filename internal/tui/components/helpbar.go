// Package components provides reusable TUI building blocks.
package components

import (
	"strings"

	"github.com/backloop-dev/backloop/internal/tui/styles"
)

// RenderHelpBar renders the bottom help bar for the given width. Each item
// is either a "key label" pair, whose leading key token is emphasized, or a
// plain status string rendered as-is. Items are joined with " • ".
func RenderHelpBar(width int, items []string) string {
	rendered := make([]string, 0, len(items))
	for _, item := range items {
		key, label, ok := strings.Cut(item, " ")
		if !ok {
			rendered = append(rendered, item)
			continue
		}
		rendered = append(rendered, styles.HelpKeyStyle.Render(key)+" "+label)
	}
	return styles.StatusBarStyle.Width(width).Render(strings.Join(rendered, " • "))
}
