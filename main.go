// Command squaredash serves Square Dash sessions.
//
// Modes:
//   - server (default): REST API, WebSocket updates and a POST /mcp endpoint
//   - stdio-mcp (aliases mcp, mcp-stdio): MCP over stdin/stdout. It talks to
//     a Square Dash server already running on -host/-port, or starts a private
//     one on a loopback port when there is none.
//
// An optional ngrok tunnel publishes the server mode for remote MCP clients.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/squaredash/api"
	"github.com/wricardo/squaredash/game/config"
	"github.com/wricardo/squaredash/game/service"
	"github.com/wricardo/squaredash/game/session"
	"github.com/wricardo/squaredash/transport/mcp"
	"github.com/wricardo/squaredash/transport/websocket"
)

const (
	Version = "1.0.0"
	AppName = "Square Dash Server"
)

// Sessions idle for sessionMaxAge are dropped every cleanupInterval
const (
	sessionMaxAge   = 24 * time.Hour
	cleanupInterval = time.Hour
)

var (
	port         = flag.Int("port", 8080, "HTTP server port")
	host         = flag.String("host", "localhost", "HTTP server host")
	levelsDir    = flag.String("levels-dir", getLevelsDirDefault(), "Directory containing the level pack")
	debug        = flag.Bool("debug", false, "Log file and line numbers")
	version      = flag.Bool("version", false, "Print the version and exit")
	ngrokEnabled = flag.Bool("ngrok", false, "Publish the server through an ngrok tunnel")
	ngrokAuth    = flag.String("ngrok-auth", "", "Ngrok auth token (default $NGROK_AUTHTOKEN)")
	ngrokDomain  = flag.String("ngrok-domain", "", "Reserved ngrok domain (default $NGROK_DOMAIN)")
)

// getLevelsDirDefault honors LEVELS_DIR, else "levels"
func getLevelsDirDefault() string {
	if dir := os.Getenv("LEVELS_DIR"); dir != "" {
		return dir
	}
	return "levels"
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s v%s\n\n", AppName, Version)
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] [server|stdio-mcp]\n\nOptions:\n", os.Args[0])
		flag.PrintDefaults()
	}
}

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env")
	} else if !os.IsNotExist(err) {
		log.Printf("Warning: cannot read .env: %v", err)
	}

	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		return
	}
	if *debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	mode := "server"
	if flag.NArg() > 0 {
		mode = flag.Arg(0)
	}

	gameService, err := initializeServices()
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch mode {
	case "server", "http":
		err = runHTTPServer(ctx, gameService)
	case "stdio-mcp", "mcp-stdio", "mcp":
		err = runStdioMCP(ctx, gameService)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

// initializeServices loads the level pack and wires the game service. A
// pack with no valid level still starts, on the built-in default level.
func initializeServices() (service.GameService, error) {
	levels, err := config.NewManager(*levelsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create level manager: %w", err)
	}

	pack, err := levels.Pack()
	if err != nil {
		return nil, fmt.Errorf("failed to load level pack: %w", err)
	}
	log.Printf("Level pack: %d level(s) from %s", len(pack), *levelsDir)

	sessions := session.NewManager()
	go expireSessions(sessions)

	return service.NewGameService(sessions, levels), nil
}

func expireSessions(sessions *session.Manager) {
	for range time.Tick(cleanupInterval) {
		if n := sessions.CleanupExpiredSessions(sessionMaxAge); n > 0 {
			log.Printf("Expired %d idle session(s)", n)
		}
	}
}

// newHandler mounts the game API and the MCP message endpoint. The MCP
// tools call back into the API at baseURL.
func newHandler(gameService service.GameService, hub *websocket.Hub, baseURL string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", api.NewServer(gameService, hub))
	mux.Handle("/mcp", mcpHandler(mcp.NewClient(baseURL).GetMCPServer()))
	return mux
}

// mcpHandler answers one JSON-RPC message per POST
func mcpHandler(s *server.MCPServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s.HandleMessage(r.Context(), body)); err != nil {
			log.Printf("Failed to write MCP response: %v", err)
		}
	}
}

func runHTTPServer(ctx context.Context, gameService service.GameService) error {
	hub := websocket.NewHub()
	go hub.Run()

	addr := fmt.Sprintf("%s:%d", *host, *port)
	handler := newHandler(gameService, hub, "http://"+addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("%s v%s on http://%s (API /api, WebSocket /ws?session=<id>, MCP /mcp)", AppName, Version, addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	if tunnel, ok := ngrokSettingsFromEnv(); ok {
		go func() {
			if err := serveNgrok(ctx, tunnel, handler); err != nil {
				log.Printf("Ngrok tunnel: %v", err)
			}
		}()
	}

	select {
	case err := <-errc:
		return fmt.Errorf("HTTP server failed: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// ngrokSettings are the resolved tunnel options
type ngrokSettings struct {
	authToken string
	domain    string
}

// ngrokSettingsFromEnv merges the ngrok flags with NGROK_* variables. The
// tunnel is off unless -ngrok or NGROK_ENABLED is set, and it needs a token.
func ngrokSettingsFromEnv() (ngrokSettings, bool) {
	enabled := *ngrokEnabled
	switch os.Getenv("NGROK_ENABLED") {
	case "true", "1":
		enabled = true
	}
	if !enabled {
		return ngrokSettings{}, false
	}

	s := ngrokSettings{authToken: *ngrokAuth, domain: *ngrokDomain}
	for _, key := range []string{"NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"} {
		if s.authToken == "" {
			s.authToken = os.Getenv(key)
		}
	}
	if s.domain == "" {
		s.domain = os.Getenv("NGROK_DOMAIN")
	}
	if s.authToken == "" {
		log.Println("WARNING: ngrok requested without an auth token (-ngrok-auth or NGROK_AUTHTOKEN); tunnel disabled")
		return ngrokSettings{}, false
	}
	return s, true
}

// serveNgrok publishes handler until ctx ends
func serveNgrok(ctx context.Context, s ngrokSettings, handler http.Handler) error {
	endpoint := ngrokConfig.HTTPEndpoint()
	if s.domain != "" {
		endpoint = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(s.domain))
	}

	tun, err := ngrok.Listen(ctx, endpoint, ngrok.WithAuthtoken(s.authToken))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer tun.Close()

	log.Printf("Public URL: %s (MCP %s/mcp)", tun.URL(), tun.URL())

	go func() {
		<-ctx.Done()
		tun.Close()
	}()
	if err := http.Serve(tun, handler); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// runStdioMCP serves MCP on stdin/stdout against a running Square Dash
// server, or a private one when none answers on -host/-port
func runStdioMCP(ctx context.Context, gameService service.GameService) error {
	baseURL := fmt.Sprintf("http://%s:%d", *host, *port)

	if health, ok := findSquareDash(baseURL); ok {
		log.Printf("Using Square Dash server at %s (%d levels)", baseURL, health.Levels)
	} else {
		url, shutdown, err := startPrivateAPI(gameService)
		if err != nil {
			return fmt.Errorf("start private API: %w", err)
		}
		defer shutdown()
		log.Printf("No Square Dash server at %s, serving sessions from %s", baseURL, url)
		baseURL = url
	}

	return server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer())
}

// findSquareDash reports whether baseURL is a Square Dash API. Another
// service on the same port does not count.
func findSquareDash(baseURL string) (api.Health, bool) {
	var health api.Health

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return health, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK || json.NewDecoder(resp.Body).Decode(&health) != nil {
		return health, false
	}
	return health, health.Service == api.ServiceName
}

// startPrivateAPI serves the game API on a free loopback port. The
// listener is bound before returning, so the URL accepts requests at once.
func startPrivateAPI(gameService service.GameService) (string, func(), error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, err
	}

	hub := websocket.NewHub()
	go hub.Run()

	srv := &http.Server{Handler: api.NewServer(gameService, hub)}
	go func() {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Private API stopped: %v", err)
		}
	}()

	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
	return "http://" + ln.Addr().String(), shutdown, nil
}
