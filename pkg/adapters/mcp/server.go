// Package mcp exposes the bounce workflow to MCP clients, so an assistant
// wired into the session can validate and trigger bounces over stdio or SSE.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jfellner/bounceflow"
	"github.com/jfellner/bounceflow/pkg/domain"
	"github.com/jfellner/bounceflow/pkg/ports"
)

// Engine is the workflow surface the MCP tools drive.
type Engine interface {
	Run(ctx context.Context, pass domain.RenderPass) (*domain.Report, error)
	Preflight(ctx context.Context, pass domain.RenderPass) error
}

// Server wraps an engine and a report store as an MCP server.
type Server struct {
	engine    Engine
	store     ports.ReportStore
	mcpServer *server.MCPServer

	// One bounce at a time; the workflow owns shared host state while
	// it runs.
	mu sync.Mutex
}

// NewServer creates the MCP server and registers its tools. store may be
// nil; get_report and list_runs then report an empty history.
func NewServer(engine Engine, store ports.ReportStore) *Server {
	s := &Server{
		engine:    engine,
		store:     store,
		mcpServer: server.NewMCPServer("bounceflow-mcp", strings.TrimSpace(bounceflow.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: run_bounce
	runTool := mcp.NewTool("run_bounce",
		mcp.WithDescription("Bounce the MIDI items on the selected track through the hardware insert onto a new track. Mutates session state."),
		mcp.WithString("pass", mcp.Description(`Render pass: "primary" (default) or "secondary"`)),
		mcp.WithOutputSchema[domain.Report](),
	)
	s.mcpServer.AddTool(runTool, mcp.NewStructuredToolHandler(s.handleRun))

	// TOOL: preflight_bounce
	preflightTool := mcp.NewTool("preflight_bounce",
		mcp.WithDescription("Check every bounce precondition (selection, hardware insert, MIDI items, helper scripts) without touching session state."),
		mcp.WithString("pass", mcp.Description(`Render pass: "primary" (default) or "secondary"`)),
	)
	s.mcpServer.AddTool(preflightTool, s.handlePreflight)

	// TOOL: get_report
	reportTool := mcp.NewTool("get_report",
		mcp.WithDescription("Fetch the stored report of a past bounce by run ID."),
		mcp.WithString("run_id", mcp.Required(), mcp.Description("Run ID returned by run_bounce")),
		mcp.WithOutputSchema[domain.Report](),
	)
	s.mcpServer.AddTool(reportTool, mcp.NewStructuredToolHandler(s.handleGetReport))

	// TOOL: list_runs
	s.mcpServer.AddTool(mcp.NewTool("list_runs",
		mcp.WithDescription("List the run IDs of stored bounce reports."),
	), s.handleListRuns)
}

func (s *Server) handleRun(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Report, error) {
	passArg, _ := args["pass"].(string)
	pass, err := domain.ParsePass(passArg)
	if err != nil {
		return domain.Report{}, err
	}

	s.mu.Lock()
	report, err := s.engine.Run(ctx, pass)
	s.mu.Unlock()

	if report == nil {
		return domain.Report{}, fmt.Errorf("bounce failed: %w", err)
	}
	if s.store != nil {
		if saveErr := s.store.Save(ctx, report); saveErr != nil {
			slog.Error("failed to store bounce report", "err", saveErr, "run_id", report.RunID)
		}
	}
	// Aborted and failed runs still produce a report; the Status and
	// AbortReason fields carry the outcome to the client.
	return *report, nil
}

func (s *Server) handlePreflight(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pass, err := domain.ParsePass(request.GetString("pass", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.mu.Lock()
	err = s.engine.Preflight(ctx, pass)
	s.mu.Unlock()

	if err != nil {
		var abort *domain.AbortError
		if errors.As(err, &abort) {
			return mcp.NewToolResultError(fmt.Sprintf("precondition failed at %s: %s", abort.Stage, abort.Reason)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("preflight failed: %v", err)), nil
	}
	return mcp.NewToolResultText("all preconditions satisfied"), nil
}

func (s *Server) handleGetReport(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Report, error) {
	runID, _ := args["run_id"].(string)
	if s.store == nil {
		return domain.Report{}, errors.New("no report store configured")
	}
	report, err := s.store.Load(ctx, runID)
	if err != nil {
		if errors.Is(err, domain.ErrReportNotFound) {
			return domain.Report{}, fmt.Errorf("run %q not found", runID)
		}
		return domain.Report{}, fmt.Errorf("load report: %w", err)
	}
	return *report, nil
}

func (s *Server) handleListRuns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids := []string{}
	if s.store != nil {
		var err error
		ids, err = s.store.List(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list runs: %v", err)), nil
		}
	}
	jsonBytes, _ := json.Marshal(map[string][]string{"runs": ids})
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) registerResources() {
	// EXPOSE: bounceflow://runs
	s.mcpServer.AddResource(mcp.NewResource("bounceflow://runs", "Stored Bounce Reports",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		reports := []*domain.Report{}
		if s.store != nil {
			ids, err := s.store.List(ctx)
			if err != nil {
				return nil, fmt.Errorf("list runs: %w", err)
			}
			for _, id := range ids {
				report, err := s.store.Load(ctx, id)
				if err != nil {
					continue
				}
				reports = append(reports, report)
			}
		}
		jsonBytes, _ := json.Marshal(reports)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "bounceflow://runs",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
