package terminal

import (
	"bytes"
	"io"
	"log"

	"github.com/ellery/par-term/internal/tmux"
)

// StartTmuxGateway writes a "tmux -CC" attach/create command into the
// pane's own PTY and arms the control-mode gateway: subsequent PTY reads
// are scanned for "%..." wire notifications (via feedTmuxScanner) instead
// of being written straight through to the VT emulator, and outgoing
// keystrokes are rewritten into send-keys commands while the gateway
// stays connected (see Write).
func (p *Panel) StartTmuxGateway(sessionName string) error {
	p.mu.Lock()
	if !p.Running || p.PTY == nil {
		p.mu.Unlock()
		return io.ErrClosedPipe
	}
	p.tmuxSession = tmux.NewSession()
	p.tmuxScanner = &tmux.LineScanner{}
	pty := p.PTY
	p.mu.Unlock()

	var cmd string
	if sessionName == "" {
		cmd = tmux.NewCommand("")
	} else {
		cmd = tmux.CreateOrAttachCommand(sessionName)
	}

	p.tmuxSession.BeginInitiating()
	_, err := pty.Write([]byte(cmd))
	return err
}

// StopTmuxGateway detaches the gateway; the underlying tmux client
// process (if still running) is left to the normal shell exit path.
func (p *Panel) StopTmuxGateway() {
	p.mu.Lock()
	p.tmuxSession = nil
	p.tmuxScanner = nil
	p.tmuxLineBuf = nil
	p.mu.Unlock()
}

// feedTmuxScanner splits data on newlines and routes each complete line
// through the gateway's LineScanner. Lines identified as control-mode
// notifications update p.tmuxSession and are dropped; everything else
// (including partial lines held across reads) is forwarded unchanged to
// write, the next stage in the PTY read pipeline.
func (p *Panel) feedTmuxScanner(data []byte, write func([]byte)) {
	if p.tmuxSession == nil {
		write(data)
		return
	}

	p.tmuxLineBuf = append(p.tmuxLineBuf, data...)
	for {
		idx := bytes.IndexByte(p.tmuxLineBuf, '\n')
		if idx < 0 {
			break
		}
		line := p.tmuxLineBuf[:idx]
		p.tmuxLineBuf = p.tmuxLineBuf[idx+1:]

		trimmed := bytes.TrimSuffix(line, []byte("\r"))
		n, ok := p.tmuxScanner.Feed(string(trimmed))
		if !ok {
			write(append(line, '\n'))
			continue
		}
		if n.Kind == tmux.NotificationError {
			log.Printf("PAR-TERM: tmux control mode: %s", n.Message)
		}
		p.tmuxSession.ProcessNotification(n)
	}
}

// writeThroughTmuxLocked rewrites data (raw user keystrokes) into a
// tmux send-keys command addressed at the last focused pane and writes
// that command to the PTY instead. Caller must hold p.mu.
func (p *Panel) writeThroughTmuxLocked(data []byte) error {
	paneID, ok := p.tmuxSession.FocusedPane()
	if !ok {
		paneID = "0"
	}
	escaped := tmux.EscapeKeysForTmux(data)
	cmd := tmux.FormatSendKeys(paneID, escaped)
	_, err := p.PTY.Write([]byte(cmd))
	return err
}
