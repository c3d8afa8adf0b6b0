package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/omarshaarawi/sleeperstats/internal/rankings"
	"github.com/omarshaarawi/sleeperstats/internal/service"
)

const version = "0.1.0"

// Views is the part of the dashboard exposed as tools.
type Views interface {
	PowerRankings(ctx context.Context) (service.PowerReport, error)
	Standings(ctx context.Context) (string, error)
	ManagerHistoryReport(ctx context.Context, season string) (string, error)
	AwardsReport(ctx context.Context, season string) (string, error)
	DraftReport(ctx context.Context, season string, evalWeek int, withBoard bool) (string, error)
	TeamCareer(ctx context.Context, query string) (string, error)
	ExportSettings(ctx context.Context) ([]byte, error)
	ImportSettings(ctx context.Context, data []byte) error
	SetTeamName(ctx context.Context, team, name string) (string, error)
	ToggleExclusion(ctx context.Context, team, season string) (bool, error)
	SetRestOfSeason(ctx context.Context, rows []rankings.ROSRow) error
	SeedPreviousRanks(ctx context.Context, ranks map[string]int) error
	Refresh(ctx context.Context) error
}

type NoArgs struct{}

type SeasonArgs struct {
	Season string `json:"season" jsonschema:"Season year, or all (default all)"`
}

type AwardsArgs struct {
	Season string `json:"season" jsonschema:"Season year, or all for all-time awards (default current season)"`
}

type DraftArgs struct {
	Season string `json:"season" jsonschema:"Season year (default current season)"`
	Week   int    `json:"week" jsonschema:"Evaluate through this week (0 = whole season)"`
	Board  bool   `json:"board" jsonschema:"Include the round by round draft board"`
}

type TeamArgs struct {
	Team string `json:"team" jsonschema:"Team name, owner id, or roster:<id>:<season> (required)"`
}

type RenameArgs struct {
	Team string `json:"team" jsonschema:"Team to rename (required)"`
	Name string `json:"name" jsonschema:"New display name, empty clears the override"`
}

type ExclusionArgs struct {
	Team   string `json:"team" jsonschema:"Team whose owner is toggled (required)"`
	Season string `json:"season" jsonschema:"Season year to toggle (required)"`
}

type ImportArgs struct {
	Bundle string `json:"bundle" jsonschema:"Settings bundle as produced by export_settings (required)"`
}

type ROSArgs struct {
	Rows []rankings.ROSRow `json:"rows" jsonschema:"Rest-of-season rankings, empty clears them"`
}

type SeedArgs struct {
	Ranks map[string]int `json:"ranks" jsonschema:"Last published rank per team display name (required)"`
}

type toolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Server exposes the dashboard over MCP.
type Server struct {
	views    Views
	server   *mcp.Server
	registry []toolInfo
}

func New(views Views) *Server {
	s := &Server{
		views: views,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "sleeperstats",
			Version: version,
		}, nil),
		registry: make([]toolInfo, 0, 13),
	}

	addTool(s, &mcp.Tool{
		Name:        "power_rankings",
		Description: "Current power rankings with component ranks and week over week change",
	}, s.powerRankings)
	addTool(s, &mcp.Tool{
		Name:        "standings",
		Description: "Current season standings",
	}, s.standings)
	addTool(s, &mcp.Tool{
		Name:        "manager_history",
		Description: "Career records and podium finishes per manager",
	}, s.managerHistory)
	addTool(s, &mcp.Tool{
		Name:        "season_awards",
		Description: "Season or all-time awards",
	}, s.seasonAwards)
	addTool(s, &mcp.Tool{
		Name:        "draft_report",
		Description: "Draft grades, best and worst picks, optional draft board",
	}, s.draftReport)
	addTool(s, &mcp.Tool{
		Name:        "team_career",
		Description: "Season by season record for one team",
	}, s.teamCareer)
	addTool(s, &mcp.Tool{
		Name:        "export_settings",
		Description: "Export every stored league setting as a JSON bundle",
	}, s.exportSettings)
	addTool(s, &mcp.Tool{
		Name:        "import_settings",
		Description: "Replace every stored league setting with a bundle",
	}, s.importSettings)
	addTool(s, &mcp.Tool{
		Name:        "set_team_name",
		Description: "Set or clear a custom team name",
	}, s.setTeamName)
	addTool(s, &mcp.Tool{
		Name:        "toggle_exclusion",
		Description: "Toggle whether a season counts toward a manager's history",
	}, s.toggleExclusion)
	addTool(s, &mcp.Tool{
		Name:        "load_ros_rankings",
		Description: "Store rest-of-season player rankings used by power rankings",
	}, s.loadROS)
	addTool(s, &mcp.Tool{
		Name:        "seed_previous_ranks",
		Description: "Seed last week's power ranks by team name for the next change arrows",
	}, s.seedRanks)
	addTool(s, &mcp.Tool{
		Name:        "refresh",
		Description: "Rebuild the cached league history from Sleeper",
	}, s.refresh)

	return s
}

func addTool[T any](s *Server, tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, T) (*mcp.CallToolResult, any, error)) {
	s.registry = append(s.registry, toolInfo{Name: tool.Name, Description: tool.Description})
	mcp.AddTool(s.server, tool, handler)
}

// Register mounts the MCP endpoint and the tool listing on mux.
func (s *Server) Register(mux *http.ServeMux, path string) {
	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return s.server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})

	mux.Handle(path, handler)
	mux.HandleFunc("/tools", s.handleTools)
}

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	b, _ := json.MarshalIndent(map[string]any{"tools": s.registry}, "", "  ")
	w.Write(b)
}

func (s *Server) powerRankings(ctx context.Context, _ *mcp.CallToolRequest, _ NoArgs) (*mcp.CallToolResult, any, error) {
	report, err := s.views.PowerRankings(ctx)
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSON(json.MarshalIndent(report, "", "  "))
}

func (s *Server) standings(ctx context.Context, _ *mcp.CallToolRequest, _ NoArgs) (*mcp.CallToolResult, any, error) {
	return toolText(s.views.Standings(ctx))
}

func (s *Server) managerHistory(ctx context.Context, _ *mcp.CallToolRequest, args SeasonArgs) (*mcp.CallToolResult, any, error) {
	return toolText(s.views.ManagerHistoryReport(ctx, strings.TrimSpace(args.Season)))
}

func (s *Server) seasonAwards(ctx context.Context, _ *mcp.CallToolRequest, args AwardsArgs) (*mcp.CallToolResult, any, error) {
	return toolText(s.views.AwardsReport(ctx, strings.TrimSpace(args.Season)))
}

func (s *Server) draftReport(ctx context.Context, _ *mcp.CallToolRequest, args DraftArgs) (*mcp.CallToolResult, any, error) {
	if args.Week < 0 {
		return toolError(fmt.Errorf("week must not be negative")), nil, nil
	}
	return toolText(s.views.DraftReport(ctx, strings.TrimSpace(args.Season), args.Week, args.Board))
}

func (s *Server) teamCareer(ctx context.Context, _ *mcp.CallToolRequest, args TeamArgs) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.Team) == "" {
		return toolError(fmt.Errorf("team is required")), nil, nil
	}
	return toolText(s.views.TeamCareer(ctx, args.Team))
}

func (s *Server) exportSettings(ctx context.Context, _ *mcp.CallToolRequest, _ NoArgs) (*mcp.CallToolResult, any, error) {
	return toolJSON(s.views.ExportSettings(ctx))
}

func (s *Server) importSettings(ctx context.Context, _ *mcp.CallToolRequest, args ImportArgs) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.Bundle) == "" {
		return toolError(fmt.Errorf("bundle is required")), nil, nil
	}
	if err := s.views.ImportSettings(ctx, []byte(args.Bundle)); err != nil {
		return toolError(err), nil, nil
	}
	return toolText("Settings imported.", nil)
}

func (s *Server) setTeamName(ctx context.Context, _ *mcp.CallToolRequest, args RenameArgs) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.Team) == "" {
		return toolError(fmt.Errorf("team is required")), nil, nil
	}
	key, err := s.views.SetTeamName(ctx, args.Team, args.Name)
	if err != nil {
		return toolError(err), nil, nil
	}
	if strings.TrimSpace(args.Name) == "" {
		return toolText(fmt.Sprintf("Cleared custom name for %s.", key), nil)
	}
	return toolText(fmt.Sprintf("Renamed %s to %s.", key, strings.TrimSpace(args.Name)), nil)
}

func (s *Server) toggleExclusion(ctx context.Context, _ *mcp.CallToolRequest, args ExclusionArgs) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.Team) == "" || strings.TrimSpace(args.Season) == "" {
		return toolError(fmt.Errorf("team and season are required")), nil, nil
	}
	excluded, err := s.views.ToggleExclusion(ctx, args.Team, strings.TrimSpace(args.Season))
	if err != nil {
		return toolError(err), nil, nil
	}
	if excluded {
		return toolText(fmt.Sprintf("Season %s is now excluded.", strings.TrimSpace(args.Season)), nil)
	}
	return toolText(fmt.Sprintf("Season %s counts again.", strings.TrimSpace(args.Season)), nil)
}

func (s *Server) loadROS(ctx context.Context, _ *mcp.CallToolRequest, args ROSArgs) (*mcp.CallToolResult, any, error) {
	if err := s.views.SetRestOfSeason(ctx, args.Rows); err != nil {
		return toolError(err), nil, nil
	}
	if len(args.Rows) == 0 {
		return toolText("Rest-of-season rankings cleared.", nil)
	}
	return toolText(fmt.Sprintf("Stored %d rest-of-season rankings.", len(args.Rows)), nil)
}

func (s *Server) seedRanks(ctx context.Context, _ *mcp.CallToolRequest, args SeedArgs) (*mcp.CallToolResult, any, error) {
	if len(args.Ranks) == 0 {
		return toolError(fmt.Errorf("ranks are required")), nil, nil
	}
	for name, rank := range args.Ranks {
		if strings.TrimSpace(name) == "" || rank < 1 {
			return toolError(fmt.Errorf("invalid rank %d for %q", rank, name)), nil, nil
		}
	}
	if err := s.views.SeedPreviousRanks(ctx, args.Ranks); err != nil {
		return toolError(err), nil, nil
	}
	return toolText(fmt.Sprintf("Seeded %d previous ranks.", len(args.Ranks)), nil)
}

func (s *Server) refresh(ctx context.Context, _ *mcp.CallToolRequest, _ NoArgs) (*mcp.CallToolResult, any, error) {
	if err := s.views.Refresh(ctx); err != nil {
		return toolError(err), nil, nil
	}
	return toolText("League history refreshed.", nil)
}

func toolJSON(res []byte, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSONBytes(res), nil, nil
}

func toolJSONBytes(res []byte) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(res)},
		},
	}
}

func toolText(text string, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSONBytes([]byte(text)), nil, nil
}

func toolError(err error) *mcp.CallToolResult {
	if errors.Is(err, service.ErrNoData) {
		err = fmt.Errorf("no league data yet, run refresh once a week has been played")
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
