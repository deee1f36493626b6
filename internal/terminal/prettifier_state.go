package terminal

import (
	"log"
	"strconv"
	"strings"

	"github.com/ellery/par-term/internal/config"
	"github.com/ellery/par-term/internal/prettifier"
	"github.com/ellery/par-term/internal/terminal/marks"
)

// maxPrettifierOutputRows bounds how far capturePrettifierOutput scans
// between a CommandExecuted and CommandFinished mark, the same
// unbounded-scan guard marks.extractCommandText applies to command text.
const maxPrettifierOutputRows = 2000

// ConfigurePrettifier resolves the pane's content-prettifier settings
// from the global config plus profile's overrides — profile.ContentPrettifier
// is exactly the *prettifier.ConfigOverride ResolveConfig expects as its
// profile argument — and builds the renderer registry those settings
// enable. Called once when the pane's profile is known (at spawn, or
// when the active profile changes).
func (p *Panel) ConfigurePrettifier(global *prettifier.YamlConfig, globalEnabled bool, profile *config.Profile) {
	var profileEnabled *bool
	var override *prettifier.ConfigOverride
	if profile != nil {
		profileEnabled = profile.EnablePrettifier
		override = profile.ContentPrettifier
	}

	resolved := prettifier.ResolveConfig(globalEnabled, global, profileEnabled, override)

	p.mu.Lock()
	p.prettifierConfig = resolved
	p.prettifierRegistry = prettifier.NewRegistry(resolved.Renderers)
	p.mu.Unlock()
}

// capturePrettifierOutput watches for a CommandExecuted/CommandFinished
// pair in this batch of shell-integration events and, when one closes,
// runs the captured command output through detection and rendering.
// Called with p.mu held (feedMarksScanner's caller already holds it).
func (p *Panel) capturePrettifierOutput(events []marks.ShellIntegrationEvent) {
	if p.prettifierConfig == nil || !p.prettifierConfig.Enabled {
		return
	}

	for _, ev := range events {
		switch ev.Kind {
		case marks.CommandExecuted:
			p.pendingOutputStartLine = ev.ScrollbackLen + ev.CursorRow
			p.havePendingOutputStart = true

		case marks.CommandFinished:
			if !p.havePendingOutputStart {
				continue
			}
			endLine := ev.ScrollbackLen + ev.CursorRow
			startLine := p.pendingOutputStartLine
			p.havePendingOutputStart = false

			source := p.extractOutputRange(startLine+1, endLine)
			if source == "" {
				continue
			}
			p.prettifyCommandOutput(source)
		}
	}
}

// extractOutputRange concatenates grid rows [startLine, endLine), the
// span a CommandExecuted/CommandFinished mark pair brackets, the same
// way panelGrid already recovers command text after a CommandStart mark.
func (p *Panel) extractOutputRange(startLine, endLine int) string {
	if endLine <= startLine {
		return ""
	}
	if endLine-startLine > maxPrettifierOutputRows {
		endLine = startLine + maxPrettifierOutputRows
	}

	grid := panelGrid{p: p}
	var b strings.Builder
	for line := startLine; line < endLine; line++ {
		text, _ := grid.RowText(line)
		b.WriteString(text)
		b.WriteByte('\n')
	}
	return strings.TrimSpace(b.String())
}

// prettifyCommandOutput detects source's format against the resolved
// detection config and, if a renderer claims it, renders it and stashes
// the result for the next redraw to pick up. A miss on either detection
// or dispatch (format disabled, unrecognized) is a silent no-op: most
// command output is neither JSON nor markdown nor a diff.
func (p *Panel) prettifyCommandOutput(source string) {
	block, ok := prettifier.Detect(p.prettifierConfig.Detection, source)
	if !ok {
		return
	}

	rendered, ok, err := p.prettifierRegistry.Render(block)
	if err != nil {
		log.Printf("PAR-TERM: prettifier: %s render failed: %v", block.Format, err)
		return
	}
	if !ok {
		return
	}

	p.lastPrettified = &rendered
	log.Printf("PAR-TERM: prettifier: rendered %s block (%d lines)", block.Format, len(rendered.Lines))
	if p.OnShowMessage != nil {
		p.OnShowMessage(rendered.Badge + ": prettified " + block.Format + " output (" + strconv.Itoa(len(rendered.Lines)) + " lines)")
	}
}
