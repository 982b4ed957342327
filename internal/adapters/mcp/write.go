package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"stickynotes/internal/application"
	"stickynotes/internal/application/commands"
)

// RegisterWriteTools adds all note-modifying tools to the MCP server.
func RegisterWriteTools(s *server.MCPServer, pages *Pages) {
	s.AddTool(createNoteTool(), createNoteHandler(pages))
	s.AddTool(editNoteTool(), editNoteHandler(pages))
	s.AddTool(attachNoteTool(), attachNoteHandler(pages))
	s.AddTool(toggleNoteTool(), toggleNoteHandler(pages))
	s.AddTool(clickTextTool(), clickTextHandler(pages))
	s.AddTool(deleteNoteTool(), deleteNoteHandler(pages))
}

// --- create_note ---

func createNoteTool() mcp.Tool {
	return mcp.NewTool("create_note",
		mcp.WithDescription("Create one empty sticky note at the default position on a page."),
		mcp.WithString("url",
			mcp.Description("Page URL"),
			mcp.Required(),
		),
	)
}

func createNoteHandler(pages *Pages) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url := req.GetString("url", "")
		if err := application.ValidateRequired("pageURL", url); err != nil {
			return toolError(err)
		}
		s, err := pages.Session(ctx, url)
		if err != nil {
			return toolError(err)
		}
		n, err := s.HandleMessage(ctx, application.Message{Type: application.MessageCreateNote})
		if err != nil {
			return toolError(err)
		}
		if err := s.Flush(ctx); err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("Created note %s", n.ID)), nil
	}
}

// --- edit_note ---

func editNoteTool() mcp.Tool {
	return mcp.NewTool("edit_note",
		mcp.WithDescription("Replace the text of a note."),
		mcp.WithString("url",
			mcp.Description("Page URL"),
			mcp.Required(),
		),
		mcp.WithString("id",
			mcp.Description("Note id"),
			mcp.Required(),
		),
		mcp.WithString("text",
			mcp.Description("New note text"),
			mcp.Required(),
		),
	)
}

func editNoteHandler(pages *Pages) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s, err := pages.Session(ctx, req.GetString("url", ""))
		if err != nil {
			return toolError(err)
		}
		result, err := commands.NewEditNoteCommand(s, req.GetString("id", ""), req.GetString("text", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- attach_note ---

func attachNoteTool() mcp.Tool {
	return mcp.NewTool("attach_note",
		mcp.WithDescription("Anchor a note to text on an open page, as if the user had selected that text."),
		mcp.WithString("url",
			mcp.Description("Page URL of an open page"),
			mcp.Required(),
		),
		mcp.WithString("id",
			mcp.Description("Note id"),
			mcp.Required(),
		),
		mcp.WithString("text",
			mcp.Description("Exact text to select"),
			mcp.Required(),
		),
		mcp.WithNumber("occurrence",
			mcp.Description("Which occurrence of the text to select, starting at 1"),
		),
	)
}

func attachNoteHandler(pages *Pages) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s, err := pages.Session(ctx, req.GetString("url", ""))
		if err != nil {
			return toolError(err)
		}
		cmd := commands.NewAttachNoteCommand(s, req.GetString("id", ""), req.GetString("text", ""), req.GetInt("occurrence", 1))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- toggle_note ---

func toggleNoteTool() mcp.Tool {
	return mcp.NewTool("toggle_note",
		mcp.WithDescription("Minimize an open note or restore a minimized one."),
		mcp.WithString("url",
			mcp.Description("Page URL"),
			mcp.Required(),
		),
		mcp.WithString("id",
			mcp.Description("Note id"),
			mcp.Required(),
		),
	)
}

func toggleNoteHandler(pages *Pages) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s, err := pages.Session(ctx, req.GetString("url", ""))
		if err != nil {
			return toolError(err)
		}
		result, err := commands.NewToggleNoteCommand(s, req.GetString("id", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- click_text ---

func clickTextTool() mcp.Tool {
	return mcp.NewTool("click_text",
		mcp.WithDescription("Click on text of an open page. A click inside a note's highlight minimizes or restores that note; other clicks are left to the page."),
		mcp.WithString("url",
			mcp.Description("Page URL of an open page"),
			mcp.Required(),
		),
		mcp.WithString("text",
			mcp.Description("Exact text to click on"),
			mcp.Required(),
		),
		mcp.WithNumber("occurrence",
			mcp.Description("Which occurrence of the text, starting at 1"),
		),
	)
}

func clickTextHandler(pages *Pages) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s, err := pages.Session(ctx, req.GetString("url", ""))
		if err != nil {
			return toolError(err)
		}
		result, err := commands.NewClickTextCommand(s, req.GetString("text", ""), req.GetInt("occurrence", 1)).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- delete_note ---

func deleteNoteTool() mcp.Tool {
	return mcp.NewTool("delete_note",
		mcp.WithDescription("Delete a note. Its anchored text is restored unmarked."),
		mcp.WithString("url",
			mcp.Description("Page URL"),
			mcp.Required(),
		),
		mcp.WithString("id",
			mcp.Description("Note id"),
			mcp.Required(),
		),
	)
}

func deleteNoteHandler(pages *Pages) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s, err := pages.Session(ctx, req.GetString("url", ""))
		if err != nil {
			return toolError(err)
		}
		result, err := commands.NewDeleteNoteCommand(s, req.GetString("id", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}
