package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/squaredash/game/engine"
	"github.com/wricardo/squaredash/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Square Dash",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Square Dash - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Steer the square (P) through each level, collect every coin (o) and reach an end cell (F)
without touching an enemy (E). Touching an enemy sends you back to your checkpoint and
puts every coin back.

AVAILABLE TOOLS:
- create_session: Start a new run of the level pack
- list_sessions / get_session: Inspect runs
- game_state: Board, player, enemies and coins
- step: Hold keys for a number of frames - requires intent explanation
- pause / resume / restart: Control the run
- list_levels: The level pack
- describe_cell: What a single grid cell is
- game_instructions: Full rules

NOTE: The 'intent' parameter on step serves as rubber duck debugging - explain your reasoning!`),
	)

	// Register all tools
	c.registerTools()
}

func sessionIDSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func sessionOnlyTool(name, description string) mcp.Tool {
	return mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
			},
			Required: []string{"session_id"},
		},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session, optionally starting on a given level",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"level_id": map[string]interface{}{
					"type":        "string",
					"description": "Level ID or name to start on (optional, defaults to the first level)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(sessionOnlyTool("get_session", "Get details of a specific session"), c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(sessionOnlyTool("game_state", "Get the current board, player, enemies and coins"), c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "step",
		Description: "Hold a set of keys for a number of frames. The player moves 3 units per frame per axis; a cell is 50 units.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
				"keys": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": []string{"up", "down", "left", "right"},
					},
					"description": "Keys held down during every frame (empty to stand still)",
				},
				"frames": map[string]interface{}{
					"type":        "integer",
					"description": fmt.Sprintf("Frames to simulate (default 1, max %d)", service.MaxStepFrames),
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this step (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "keys"},
		},
	}, c.handleStep)

	c.mcpServer.AddTool(sessionOnlyTool("restart", "Restart the run from the first level with counters cleared"), c.handleControl("restart"))
	c.mcpServer.AddTool(sessionOnlyTool("pause", "Pause the run; steps do nothing until resumed"), c.handleControl("pause"))
	c.mcpServer.AddTool(sessionOnlyTool("resume", "Resume a paused run"), c.handleControl("resume"))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_levels",
		Description: "List the levels of the pack in play order",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListLevels)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Get detailed information about a grid cell of the current level: its code, kind, whether it can be walked on and what stands on it",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
				"row": map[string]interface{}{
					"type":        "integer",
					"description": "Row of the cell (0-based)",
				},
				"col": map[string]interface{}{
					"type":        "integer",
					"description": "Column of the cell (0-based)",
				},
			},
			Required: []string{"session_id", "row", "col"},
		},
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls
func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		args = map[string]interface{}{}
	}
	return args
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	levelID, _ := args["level_id"].(string)

	body := map[string]string{}
	if levelID != "" {
		body["level_id"] = levelID
	}

	var session service.SessionInfo
	if err := c.apiCall("POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\n\n%s", session.ID, formatRunState(session.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall("GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		level := "?"
		if s.State != nil {
			level = fmt.Sprintf("%d/%d %s, %s", s.State.Level+1, s.State.LevelCount, s.State.LevelName, s.State.Status)
		}
		fmt.Fprintf(&b, "- %s (Level %s, Created: %s)\n", s.ID, level, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Session: %s\nCreated: %s\nLast accessed: %s\n\n%s",
		session.ID,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		session.LastAccessedAt.Format("2006-01-02 15:04:05"),
		formatRunState(session.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var state engine.RunState
	if err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRunState(&state)), nil
}

func (c *Client) handleStep(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	keysRaw, _ := args["keys"].([]interface{})
	frames, _ := args["frames"].(float64)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_, _ = args["intent"].(string)

	keys := make([]string, 0, len(keysRaw))
	for _, k := range keysRaw {
		if key, ok := k.(string); ok {
			keys = append(keys, key)
		}
	}

	body := map[string]interface{}{
		"keys":   keys,
		"frames": int(frames),
	}

	var result service.StepResult
	if err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/step", sessionID), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatStepResult(sessionID, &result)), nil
}

// handleControl builds the handler for restart, pause and resume
func (c *Client) handleControl(action string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, _ := arguments(request)["session_id"].(string)

		var response struct {
			Message string           `json:"message"`
			State   *engine.RunState `json:"state"`
		}
		if err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/%s", sessionID, action), nil, &response); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result := fmt.Sprintf("%s\n\n%s", response.Message, formatRunState(response.State))
		return mcp.NewToolResultText(result), nil
	}
}

func (c *Client) handleListLevels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var levels []service.LevelInfo
	if err := c.apiCall("GET", "/api/levels", nil, &levels); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Level Pack:\n\n")
	for i, level := range levels {
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, level.Name, level.LevelID)
		if level.Description != "" {
			fmt.Fprintf(&b, "   %s\n", level.Description)
		}
		fmt.Fprintf(&b, "   Grid: %dx%d, Coins: %d, Enemies: %d, Checkpoints: %d\n\n",
			level.Rows, level.Cols, level.Coins, level.Enemies, level.SafeRanks)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := fmt.Sprintf(`Square Dash - Complete Instructions

GAME OBJECTIVE:
Each level is a grid of cells. Collect every coin, then reach an end cell (F).
Finishing the last level of the pack completes the run.

MOVEMENT:
- The game advances in frames. During a step you hold a set of keys for N frames.
- Each held direction moves the player %g units per frame; a cell is %g units wide.
- Opposite keys cancel out. Two perpendicular keys move diagonally.
- Against a wall the player slides along it instead of stopping.
- The player is a %g unit square; its position is its center.

GRID LEGEND (game_state board):
- P  Player
- E  Enemy
- o  Coin not yet collected
- F  End cell
- 1-5  Checkpoint cells (safe); stepping on one sets your respawn point
- .  Normal walkable cell
- #  Outside the playable area (blocks movement)

ENEMIES:
- Linear enemies patrol back and forth through a list of checkpoints.
- Radial enemies orbit a fixed point.
- Touching any enemy is a death: you respawn at your latest checkpoint and
  every coin of the level is put back.

ORDER OF EVENTS EACH FRAME:
1. You move, then every enemy moves.
2. Enemy contact is checked first (death).
3. Then coin pickups.
4. Then checkpoints, and the level finishes if you stand on F holding every coin.

STEP TIPS:
- Steps stop early when a level finishes, so you never overrun into the next level.
- Use small frame counts near enemies and watch their positions between steps.
- A cell is %d frames of straight movement.
- frames is capped at %d per call.

SESSION MANAGEMENT:
- Each session is an independent run of the pack with a 4-character ID.
- pause freezes a run, resume continues it, restart goes back to level 1
  and clears the death and frame counters.`,
		engine.PlayerSpeed, engine.CellSize, engine.PlayerWidth,
		int(math.Ceil(engine.CellSize/engine.PlayerSpeed)), service.MaxStepFrames)

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	rowF, okRow := args["row"].(float64)
	colF, okCol := args["col"].(float64)
	if !okRow || !okCol {
		return mcp.NewToolResultError("row and col are required integers"), nil
	}
	row, col := int(rowF), int(colF)

	var state engine.RunState
	if err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(describeCell(&state, row, col)), nil
}

// describeCell explains one cell of the current level
func describeCell(state *engine.RunState, row, col int) string {
	rows := len(state.Layout)
	cols := 0
	if rows > 0 {
		cols = len(state.Layout[0])
	}
	if row < 0 || row >= rows || col < 0 || col >= cols {
		return fmt.Sprintf("Cell (%d, %d) is outside the grid. Grid size is %d rows x %d cols.", row, col, rows, cols)
	}

	m, err := engine.NewMap(strings.Join(state.Layout, "\n"))
	if err != nil {
		return fmt.Sprintf("Cannot decode level layout: %v", err)
	}
	class := m.Classify(row, col)

	var b strings.Builder
	fmt.Fprintf(&b, "Cell (%d, %d):\n", row, col)
	fmt.Fprintf(&b, "Code: %q\n", state.Layout[row][col])
	fmt.Fprintf(&b, "Kind: %s\n", class.Kind)
	fmt.Fprintf(&b, "Walkable: %v\n", class.Walkable())
	center := m.CellCenter(engine.Cell{Row: row, Col: col})
	fmt.Fprintf(&b, "Center: (%.0f, %.0f)\n", center.X, center.Y)

	switch class.Kind {
	case engine.Safe:
		fmt.Fprintf(&b, "Checkpoint rank %d: standing here moves your respawn point to checkpoint %d if it is further along.\n", class.Rank+1, class.Rank+1)
	case engine.End:
		b.WriteString("End cell: the level finishes here once every coin is collected.\n")
	case engine.Outside:
		b.WriteString("Outside the playable area: the player cannot enter it.\n")
	}

	cell := engine.Cell{Row: row, Col: col}
	if m.ToGrid(state.Player.Position) == cell {
		fmt.Fprintf(&b, "The player is here at (%.1f, %.1f).\n", state.Player.Position.X, state.Player.Position.Y)
	}
	for i, e := range state.Enemies {
		if m.ToGrid(e.Position) == cell {
			fmt.Fprintf(&b, "Enemy %d (%s) is here at (%.1f, %.1f).\n", i+1, e.Kind, e.Position.X, e.Position.Y)
		}
	}
	for i, coin := range state.Coins {
		if !coin.Taken && m.ToGrid(coin.Position) == cell {
			fmt.Fprintf(&b, "Coin %d is here at (%.1f, %.1f).\n", i+1, coin.Position.X, coin.Position.Y)
		}
	}

	return b.String()
}

// Formatting helpers

// formatBoard renders the layout with coins, enemies and the player on top
func formatBoard(state *engine.RunState) string {
	if len(state.Layout) == 0 {
		return ""
	}
	m, err := engine.NewMap(strings.Join(state.Layout, "\n"))
	if err != nil {
		return fmt.Sprintf("Cannot decode level layout: %v\n", err)
	}

	board := make([][]rune, m.Rows())
	for i := range board {
		board[i] = make([]rune, m.Cols())
		for j := range board[i] {
			class := m.Classify(i, j)
			switch class.Kind {
			case engine.Outside:
				board[i][j] = '#'
			case engine.Normal:
				board[i][j] = '.'
			case engine.End:
				board[i][j] = engine.EndCode
			case engine.Safe:
				board[i][j] = engine.FirstSafeCode + rune(class.Rank)
			}
		}
	}

	place := func(v engine.Vec, mark rune) {
		c := m.ToGrid(v)
		if c.Row >= 0 && c.Row < m.Rows() && c.Col >= 0 && c.Col < m.Cols() {
			board[c.Row][c.Col] = mark
		}
	}
	for _, coin := range state.Coins {
		if !coin.Taken {
			place(coin.Position, 'o')
		}
	}
	for _, e := range state.Enemies {
		place(e.Position, 'E')
	}
	place(state.Player.Position, 'P')

	var b strings.Builder
	for _, row := range board {
		b.WriteString(string(row))
		b.WriteString("\n")
	}
	return b.String()
}

func formatRunState(state *engine.RunState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Level %d/%d: %s | Status: %s | Deaths: %d | Coins: %d/%d | Frame: %d\n",
		state.Level+1, state.LevelCount, state.LevelName, state.Status,
		state.Deaths, state.CoinsTaken, len(state.Coins), state.Frame)
	if state.Description != "" {
		fmt.Fprintf(&b, "%s\n", state.Description)
	}
	fmt.Fprintf(&b, "Player: (%.1f, %.1f) in cell (%d, %d), checkpoint %d\n",
		state.Player.Position.X, state.Player.Position.Y,
		state.Player.Cell.Row, state.Player.Cell.Col, state.Player.RespawnIndex+1)
	if len(state.Player.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "Possible moves: %s\n", strings.Join(state.Player.PossibleMoves, ","))
	}

	b.WriteString("\n")
	b.WriteString(formatBoard(state))

	if len(state.Enemies) > 0 {
		b.WriteString("\nEnemies:\n")
		for i, e := range state.Enemies {
			fmt.Fprintf(&b, "- %d %s at (%.1f, %.1f) r=%.0f\n", i+1, e.Kind, e.Position.X, e.Position.Y, e.Radius)
		}
	}

	if state.Status == engine.StatusCompleted {
		b.WriteString("\nRUN COMPLETE!")
	}

	return b.String()
}

func formatStepResult(sessionID string, result *service.StepResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Session: %s\n", sessionID)
	fmt.Fprintf(&b, "Executed %d/%d frames holding [%s]\n",
		result.FramesExecuted, result.RequestedFrames, strings.Join(result.Keys, ","))
	if result.Truncated {
		fmt.Fprintf(&b, "Truncated to %d frames\n", result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped: %s\n", result.StoppedReason)
	}
	fmt.Fprintf(&b, "Moved (%.1f, %.1f) -> (%.1f, %.1f)\n",
		result.StartPos.X, result.StartPos.Y, result.EndPos.X, result.EndPos.Y)
	if result.Message != "" {
		fmt.Fprintf(&b, "%s\n", result.Message)
	}

	if len(result.Events) > 0 {
		b.WriteString("\nEvents:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString("\n")
	b.WriteString(formatRunState(result.State))
	return b.String()
}
