package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/playpals/studio/internal/apply"
	"github.com/playpals/studio/internal/catalog"
	"github.com/playpals/studio/internal/logger"
)

// fieldJSON is one field of the step reported to the agent.
type fieldJSON struct {
	Name     string          `json:"name"`
	Label    string          `json:"label"`
	Kind     apply.FieldKind `json:"kind"`
	Required bool            `json:"required,omitempty"`
	Help     string          `json:"help,omitempty"`
	Options  []apply.Option  `json:"options,omitempty"`
	Value    *apply.Value    `json:"value,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// stepJSON is the agent's view of a form session.
type stepJSON struct {
	Session   string             `json:"session"`
	Form      string             `json:"form"`
	Index     int                `json:"index"`
	Total     int                `json:"total"`
	Title     string             `json:"title"`
	Body      string             `json:"body,omitempty"`
	Progress  int                `json:"progress"`
	First     bool               `json:"first"`
	Last      bool               `json:"last"`
	Submitted bool               `json:"submitted"`
	Fields    []fieldJSON        `json:"fields,omitempty"`
	Errors    []apply.FieldError `json:"errors,omitempty"`
	Moved     *bool              `json:"moved,omitempty"`
	// Summary lists every entered value on the final step.
	Summary []apply.SummaryItem `json:"summary,omitempty"`
}

type submitJSON struct {
	Submitted bool               `json:"submitted"`
	ID        string             `json:"id,omitempty"`
	Form      string             `json:"form,omitempty"`
	Errors    []apply.FieldError `json:"errors,omitempty"`
	// DeliveryError is set when the form was accepted but could not be
	// handed on.
	DeliveryError string `json:"delivery_error,omitempty"`
	// Final is the last view of an accepted session, which is closed
	// once submitted.
	Final *stepJSON `json:"final,omitempty"`
}

func stepOf(session string, c *apply.Controller) stepJSON {
	v := c.View()
	out := stepJSON{
		Session:   session,
		Form:      v.Form,
		Index:     v.Index,
		Total:     v.Total,
		Title:     v.Title,
		Body:      v.Body,
		Progress:  v.Progress,
		First:     v.First,
		Last:      v.Last,
		Submitted: v.Submitted,
		Errors:    v.Errors,
	}
	for _, f := range v.Fields {
		fj := fieldJSON{
			Name:     f.Name,
			Label:    f.Label,
			Kind:     f.Kind,
			Required: f.Rule.Required,
			Help:     f.Help,
			Options:  f.Options,
			Error:    f.Error,
		}
		if f.Present {
			val := f.Value
			fj.Value = &val
		}
		out.Fields = append(out.Fields, fj)
	}
	if v.Last {
		out.Summary = c.Summary()
	}
	return out
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func stringArg(request mcp.CallToolRequest, name string) (string, bool) {
	args := request.GetArguments()
	if args == nil {
		return "", false
	}
	s, ok := args[name].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

func unknownSession(id string) *mcp.CallToolResult {
	return mcp.NewToolResultText(fmt.Sprintf("error: unknown session %q", id))
}

func (s *Server) handleListGames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	games := s.catalog.Games()
	if len(games) == 0 {
		return mcp.NewToolResultText("No games"), nil
	}
	lines := make([]string, 0, len(games))
	for _, g := range games {
		lines = append(lines, fmt.Sprintf("%s: %s (%s)", g.ID, g.Title, g.Tagline))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) handleShowGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := stringArg(request, "id")
	if !ok {
		return mcp.NewToolResultText("error: missing or invalid 'id' parameter"), nil
	}
	g, err := s.catalog.Game(id)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}
	return mcp.NewToolResultText(catalog.GameMarkdown(g)), nil
}

func (s *Server) handleListTools(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tools := s.catalog.Tools()
	if len(tools) == 0 {
		return mcp.NewToolResultText("No tools"), nil
	}
	lines := make([]string, 0, len(tools))
	for _, t := range tools {
		lines = append(lines, fmt.Sprintf("%s: %s (%s)", t.ID, t.Title, t.Tagline))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) handleShowTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := stringArg(request, "id")
	if !ok {
		return mcp.NewToolResultText("error: missing or invalid 'id' parameter"), nil
	}
	t, err := s.catalog.Tool(id)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}
	return mcp.NewToolResultText(catalog.ToolMarkdown(t)), nil
}

func (s *Server) handleFormStart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	formID, ok := stringArg(request, "form")
	if !ok {
		return mcp.NewToolResultText("error: missing or invalid 'form' parameter"), nil
	}
	def, err := apply.Lookup(formID, s.jobOpts)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}

	id, err := s.sessions.open(def)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}
	logger.Debug("Started %s form session %s", formID, id)

	var out stepJSON
	s.sessions.with(id, func(c *apply.Controller) { out = stepOf(id, c) })
	return jsonResult(out)
}

func (s *Server) handleFormSet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := stringArg(request, "session")
	if !ok {
		return mcp.NewToolResultText("error: missing or invalid 'session' parameter"), nil
	}
	name, ok := stringArg(request, "name")
	if !ok {
		return mcp.NewToolResultText("error: missing or invalid 'name' parameter"), nil
	}

	raw, present := request.GetArguments()["value"]
	val, err := apply.ValueOf(raw)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}

	var msg string
	found := s.sessions.with(id, func(c *apply.Controller) {
		if c.Submitted() {
			msg = "error: form already submitted"
			return
		}
		if !present || raw == nil {
			if _, known := c.Definition().Field(name); !known {
				msg = fmt.Sprintf("error: %v", apply.FieldError{Field: name, Message: "unknown field"})
				return
			}
			c.Clear(name)
			msg = fmt.Sprintf("Cleared %s", name)
			return
		}
		if err := c.Update(name, val); err != nil {
			msg = fmt.Sprintf("error: %v", err)
			return
		}
		msg = fmt.Sprintf("Set %s", name)
	})
	if !found {
		return unknownSession(id), nil
	}
	return mcp.NewToolResultText(msg), nil
}

func (s *Server) handleFormNext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.move(request, (*apply.Controller).Next)
}

func (s *Server) handleFormBack(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.move(request, (*apply.Controller).Back)
}

func (s *Server) move(request mcp.CallToolRequest, step func(*apply.Controller) bool) (*mcp.CallToolResult, error) {
	id, ok := stringArg(request, "session")
	if !ok {
		return mcp.NewToolResultText("error: missing or invalid 'session' parameter"), nil
	}
	var out stepJSON
	found := s.sessions.with(id, func(c *apply.Controller) {
		moved := step(c)
		out = stepOf(id, c)
		out.Moved = &moved
	})
	if !found {
		return unknownSession(id), nil
	}
	return jsonResult(out)
}

func (s *Server) handleFormView(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := stringArg(request, "session")
	if !ok {
		return mcp.NewToolResultText("error: missing or invalid 'session' parameter"), nil
	}
	var out stepJSON
	if !s.sessions.with(id, func(c *apply.Controller) { out = stepOf(id, c) }) {
		return unknownSession(id), nil
	}
	return jsonResult(out)
}

func (s *Server) handleFormSubmit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := stringArg(request, "session")
	if !ok {
		return mcp.NewToolResultText("error: missing or invalid 'session' parameter"), nil
	}

	var (
		out      submitJSON
		sub      apply.Submission
		rejected string
	)
	found := s.sessions.with(id, func(c *apply.Controller) {
		switch {
		case c.Submitted():
			rejected = "error: form already submitted"
		case !c.IsLast():
			rejected = fmt.Sprintf("error: submit is only available on the final step (currently on step %d of %d)",
				c.Index()+1, c.Total())
		default:
			var accepted bool
			sub, accepted = c.Submit()
			out.Submitted = accepted
			if !accepted {
				out.Errors = c.Errors().Errors()
				return
			}
			final := stepOf(id, c)
			out.Final = &final
		}
	})
	if !found {
		return unknownSession(id), nil
	}
	if rejected != "" {
		return mcp.NewToolResultText(rejected), nil
	}
	if !out.Submitted {
		return jsonResult(out)
	}

	s.sessions.close(id)
	out.ID = sub.ID
	out.Form = sub.Form
	if s.outbox != nil {
		if err := s.outbox.Deliver(ctx, sub); err != nil {
			logger.Error("Delivering submission %s: %v", sub.ID, err)
			out.DeliveryError = err.Error()
			if errors.Is(err, context.Canceled) {
				out.DeliveryError = "delivery cancelled"
			}
		}
	}
	logger.Info("Form session %s submitted as %s", id, sub.ID)
	return jsonResult(out)
}

func (s *Server) handleFormCancel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := stringArg(request, "session")
	if !ok {
		return mcp.NewToolResultText("error: missing or invalid 'session' parameter"), nil
	}
	if !s.sessions.with(id, func(*apply.Controller) {}) {
		return unknownSession(id), nil
	}
	s.sessions.close(id)
	return mcp.NewToolResultText(fmt.Sprintf("Cancelled session %s", id)), nil
}
