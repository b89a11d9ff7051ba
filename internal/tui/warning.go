package tui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/Makepad-fr/tada/internal/ui"
)

const warningMarkdown = `# todos

**Please set your user id.**

This app shows the todos of one owner and needs that owner's id before it
can talk to the API. Set it in any of these places, then start again:

- ` + "`user_id = 42`" + ` in ` + "`tada.toml`" + `
- the ` + "`TADA_USER_ID`" + ` environment variable
- the ` + "`--user-id`" + ` flag

Press **q** to quit.
`

var (
	mdMu        sync.Mutex
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// renderWarning draws the onboarding view shown when no owner is configured.
func renderWarning(width int) string {
	if width < 20 {
		width = 20
	}
	style := ui.Current().MarkdownStyle
	k := style + ":" + strconv.Itoa(width)

	mdMu.Lock()
	defer mdMu.Unlock()
	r := mdRenderers[k]
	if r == nil {
		// named style only: auto detection queries the terminal
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return warningMarkdown
		}
		mdRenderers[k] = rr
		r = rr
	}
	out, err := r.Render(warningMarkdown)
	if err != nil {
		return warningMarkdown
	}
	return strings.Trim(out, "\n")
}
