package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"stickynotes/internal/application"
	"stickynotes/internal/application/commands"
	"stickynotes/internal/domain"
	"stickynotes/internal/ports"
)

// RegisterReadTools adds the read-only note tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, pages *Pages, store ports.NoteStore) {
	s.AddTool(listNotesTool(), listNotesHandler(pages))
	s.AddTool(listPagesTool(), listPagesHandler(store))
	s.AddTool(renderPageTool(), renderPageHandler(pages))
}

// --- list_notes ---

func listNotesTool() mcp.Tool {
	return mcp.NewTool("list_notes",
		mcp.WithDescription("List the sticky notes of a page with their ids, geometry, anchor quote and whether the quote is marked."),
		mcp.WithString("url",
			mcp.Description("Page URL"),
			mcp.Required(),
		),
	)
}

func listNotesHandler(pages *Pages) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url := req.GetString("url", "")
		if err := application.ValidateRequired("pageURL", url); err != nil {
			return toolError(err)
		}
		s, err := pages.Session(ctx, url)
		if err != nil {
			return toolError(err)
		}
		notes := s.Notes()
		if len(notes) == 0 {
			return mcp.NewToolResultText("No notes."), nil
		}
		anchored := s.Anchored()
		var sb strings.Builder
		for _, n := range notes {
			sb.WriteString(formatNote(n, anchored[n.ID]))
			sb.WriteByte('\n')
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- list_pages ---

func listPagesTool() mcp.Tool {
	return mcp.NewTool("list_pages",
		mcp.WithDescription("List every page that has stored notes."),
	)
}

func listPagesHandler(store ports.NoteStore) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		urls, err := commands.NewListPagesCommand(store).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(urls) == 0 {
			return mcp.NewToolResultText("No pages."), nil
		}
		return mcp.NewToolResultText(strings.Join(urls, "\n")), nil
	}
}

// --- render_page ---

func renderPageTool() mcp.Tool {
	return mcp.NewTool("render_page",
		mcp.WithDescription("Re-anchor the notes of an open page and return its HTML with anchor markers."),
		mcp.WithString("url",
			mcp.Description("Page URL of an open page"),
			mcp.Required(),
		),
	)
}

func renderPageHandler(pages *Pages) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s, err := pages.Session(ctx, req.GetString("url", ""))
		if err != nil {
			return toolError(err)
		}
		result, err := commands.NewRenderPageCommand(s).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.HTML), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatNote(n domain.Note, marked bool) string {
	state := "open"
	if n.Minimized {
		state = "minimized"
	}
	line := fmt.Sprintf("%s  (%g,%g) %gx%g  %s", n.ID, n.X, n.Y, n.Width, n.Height, state)
	if n.Anchor != nil {
		mark := "unmarked"
		if marked {
			mark = "marked"
		}
		line += fmt.Sprintf("  %q [%s]", n.Anchor.Quote, mark)
	}
	if n.Text != "" {
		line += "  " + strings.ReplaceAll(n.Text, "\n", " ")
	}
	return line
}
