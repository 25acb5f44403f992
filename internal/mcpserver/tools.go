package mcpserver

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/playpals/studio/internal/apply"
)

// registerTools adds the catalog and form tools to the MCP server.
func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("list-games",
			mcp.WithDescription("List the studio's published games"),
		),
		s.handleListGames,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("show-game",
			mcp.WithDescription("Show a game's detail page as markdown"),
			mcp.WithString("id", mcp.Required(),
				mcp.Description("Game id, as returned by list-games"),
			),
		),
		s.handleShowGame,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("list-tools",
			mcp.WithDescription("List the studio's development tools"),
		),
		s.handleListTools,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("show-tool",
			mcp.WithDescription("Show a tool's detail page as markdown"),
			mcp.WithString("id", mcp.Required(),
				mcp.Description("Tool id, as returned by list-tools"),
			),
		),
		s.handleShowTool,
	)

	sessionArg := mcp.WithString("session", mcp.Required(),
		mcp.Description("Session id returned by form-start"),
	)

	s.mcpServer.AddTool(
		mcp.NewTool("form-start",
			mcp.WithDescription("Start filling in a form. Returns a session id and the first step"),
			mcp.WithString("form", mcp.Required(),
				mcp.Description("Form id: "+strings.Join(apply.FormIDs(), ", ")),
			),
		),
		s.handleFormStart,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("form-set",
			mcp.WithDescription("Set one field of the current form. Files are given as {name, size, mime_type}"),
			sessionArg,
			mcp.WithString("name", mcp.Required(),
				mcp.Description("Field name"),
			),
			mcp.WithString("value",
				mcp.Description("New value. Omit to clear the field"),
			),
		),
		s.handleFormSet,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("form-next",
			mcp.WithDescription("Validate the current step and move to the next one"),
			sessionArg,
		),
		s.handleFormNext,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("form-back",
			mcp.WithDescription("Move to the previous step, keeping entered values"),
			sessionArg,
		),
		s.handleFormBack,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("form-submit",
			mcp.WithDescription("Submit the form from its final step"),
			sessionArg,
		),
		s.handleFormSubmit,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("form-view",
			mcp.WithDescription("Show the current step, its fields, values and errors"),
			sessionArg,
		),
		s.handleFormView,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("form-cancel",
			mcp.WithDescription("Discard a form session"),
			sessionArg,
		),
		s.handleFormCancel,
	)
}
