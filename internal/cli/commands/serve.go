package commands

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/leapstack-labs/macroscope/internal/server"
	"github.com/leapstack-labs/macroscope/internal/state"
	"github.com/spf13/cobra"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port  int
	Watch string
	Open  bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the macroscope HTTP server and playground",
		Long: `Start a local web server exposing the resolver over HTTP.

The server provides:
- POST /api/expand    JSON in, expansion report out
- /api/stream         datastar SSE endpoint used by the playground
- /api/updates        results for the watched document (--watch)
- /api/runs           run history
- /ws                 websocket editor loop
- /                   the playground page`,
		Example: `  # Start on the default port
  macroscope serve

  # Start on a custom port
  macroscope serve --port 3000

  # Push results for a document to the playground as it changes
  macroscope serve --watch src/main.rs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8787)")
	cmd.Flags().StringVar(&opts.Watch, "watch", "", "Document to watch and push to connected clients")
	cmd.Flags().BoolVar(&opts.Open, "open", false, "Open the playground in a browser")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	// Get server config with defaults
	srvCfg := cfg.GetServerConfig()

	// CLI flags override config file
	port := srvCfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}
	watchFile := srvCfg.Watch
	if opts.Watch != "" {
		watchFile = opts.Watch
	}

	var store state.Store
	if cfg.History {
		s, cleanup, err := cmdCtx.OpenStore()
		if err != nil {
			return err
		}
		defer cleanup()
		store = s
	}

	srv := server.NewServer(server.Config{
		Resolver:      cmdCtx.Resolver,
		Store:         store,
		Port:          port,
		WatchFile:     watchFile,
		Recursive:     cfg.Recursive,
		SessionSecret: srvCfg.SessionSecret,
		Logger:        cmdCtx.Logger,
	})

	url := fmt.Sprintf("http://localhost:%d", port)
	if opts.Open {
		go openBrowser(url)
	}

	r.Println("Starting macroscope server on " + url)
	if watchFile != "" {
		r.Muted("Watching " + watchFile)
	}
	r.Muted("Press Ctrl+C to stop")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	return srv.Serve(ctx)
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
