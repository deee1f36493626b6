// Command par-term-mcp is a standalone MCP stdio server: it speaks JSON-RPC
// 2.0 over stdin/stdout so an agent client (Claude Code, an ACP-compatible
// editor) can query terminal session history without launching the full
// par-term TUI. It shares its on-disk store with `par-term mcp sessions`
// and friends.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ellery/par-term/internal/config"
	"github.com/ellery/par-term/internal/dashboard"
	"github.com/ellery/par-term/internal/llmhistory"
	"github.com/ellery/par-term/internal/mcp"
)

func main() {
	configDir := flag.String("config-dir", "", "Specify a custom location for the configuration directory")
	flag.Parse()

	if err := config.InitConfigDir(*configDir); err != nil {
		fmt.Fprintf(os.Stderr, "par-term-mcp: %v\n", err)
		os.Exit(1)
	}

	if !llmhistory.IsMCPEnabled() {
		fmt.Fprintln(os.Stderr, "par-term-mcp: MCP server is disabled in settings (llmhistory.mcpenabled: false)")
		os.Exit(1)
	}

	// stdout is reserved for the MCP protocol; all diagnostics go to stderr.
	log.SetOutput(os.Stderr)
	log.SetPrefix("[par-term-mcp] ")

	dir := dashboard.GetConfigDir()
	store, err := llmhistory.NewStore(dir)
	if err != nil {
		log.Fatalf("failed to open history store: %v", err)
	}
	defer store.Close()

	log.Printf("starting, database: %s", filepath.Join(dir, llmhistory.DBFileName))

	server := mcp.NewServer(store)
	if err := server.Run(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
