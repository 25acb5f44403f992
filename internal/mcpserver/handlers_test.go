package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/playpals/studio/internal/apply"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// extractText extracts text from CallToolResult.Content[0]
func extractText(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if textContent, ok := result.Content[0].(mcp.TextContent); ok {
		return textContent.Text
	}
	return ""
}

type handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

func call(t *testing.T, h handler, name string, args map[string]any) string {
	t.Helper()
	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	result, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return extractText(result)
}

func decodeStep(t *testing.T, text string) stepJSON {
	t.Helper()
	var step stepJSON
	require.NoError(t, json.Unmarshal([]byte(text), &step), text)
	return step
}

func startForm(t *testing.T, srv *Server, form string) stepJSON {
	t.Helper()
	return decodeStep(t, call(t, srv.handleFormStart, "form-start", map[string]any{"form": form}))
}

func set(t *testing.T, srv *Server, session, name string, value any) string {
	t.Helper()
	return call(t, srv.handleFormSet, "form-set", map[string]any{
		"session": session,
		"name":    name,
		"value":   value,
	})
}

func TestHandleListGames(t *testing.T) {
	srv, _ := newTestServer(t)

	text := call(t, srv.handleListGames, "list-games", nil)
	assert.Contains(t, text, "cosmic-crusade: Cosmic Crusade (Conquer the Stars)")
	assert.Contains(t, text, "cosmic-crusade-v2:")
}

func TestHandleShowGame(t *testing.T) {
	srv, _ := newTestServer(t)

	text := call(t, srv.handleShowGame, "show-game", map[string]any{"id": "Cosmic Crusade V2"})
	assert.True(t, strings.HasPrefix(text, "# Cosmic Crusade"), text)
	assert.Contains(t, text, "/videos/hero-background.mp4")

	text = call(t, srv.handleShowGame, "show-game", map[string]any{"id": "pong"})
	assert.True(t, strings.HasPrefix(text, "error:"), text)
	assert.Contains(t, text, "not found")

	text = call(t, srv.handleShowGame, "show-game", nil)
	assert.Equal(t, "error: missing or invalid 'id' parameter", text)
}

func TestHandleTools(t *testing.T) {
	srv, _ := newTestServer(t)

	text := call(t, srv.handleListTools, "list-tools", nil)
	assert.Contains(t, text, "game-engine: Custom Game Engine (Build Without Limits)")

	text = call(t, srv.handleShowTool, "show-tool", map[string]any{"id": "game-engine"})
	assert.True(t, strings.HasPrefix(text, "# Custom Game Engine"), text)
}

func TestHandleFormStart(t *testing.T) {
	srv, _ := newTestServer(t)

	step := startForm(t, srv, "job")
	assert.NotEmpty(t, step.Session)
	assert.Equal(t, "job", step.Form)
	assert.Equal(t, 0, step.Index)
	assert.Equal(t, 7, step.Total)
	assert.Equal(t, "Welcome", step.Title)
	assert.Equal(t, 0, step.Progress)
	assert.True(t, step.First)
	assert.Empty(t, step.Fields)

	text := call(t, srv.handleFormStart, "form-start", map[string]any{"form": "newsletter"})
	assert.Contains(t, text, `error: unknown form "newsletter"`)
}

func TestHandleFormNext_BlockedReportsErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	id := startForm(t, srv, "job").Session

	step := decodeStep(t, call(t, srv.handleFormNext, "form-next", map[string]any{"session": id}))
	require.NotNil(t, step.Moved)
	assert.True(t, *step.Moved)
	assert.Equal(t, "Personal Information", step.Title)

	step = decodeStep(t, call(t, srv.handleFormNext, "form-next", map[string]any{"session": id}))
	assert.False(t, *step.Moved)
	assert.Equal(t, 1, step.Index)

	errs := map[string]string{}
	for _, f := range step.Fields {
		errs[f.Name] = f.Error
	}
	assert.Equal(t, "Name is required", errs["fullName"])
	assert.Equal(t, "Email is required", errs["email"])
	assert.Empty(t, errs["phone"])
}

func TestHandleFormSet(t *testing.T) {
	srv, _ := newTestServer(t)
	id := startForm(t, srv, "job").Session

	assert.Equal(t, "Set fullName", set(t, srv, id, "fullName", "Alice"))
	assert.Equal(t, "error: nickname: unknown field", set(t, srv, id, "nickname", "x"))
	assert.Contains(t, set(t, srv, id, "skills", []any{"Go"}), "error: unsupported value type")

	text := call(t, srv.handleFormSet, "form-set", map[string]any{"session": id, "name": "fullName"})
	assert.Equal(t, "Cleared fullName", text)

	text = call(t, srv.handleFormSet, "form-set", map[string]any{"session": "nope", "name": "fullName", "value": "A"})
	assert.Equal(t, `error: unknown session "nope"`, text)
}

func TestHandleFormBack_KeepsValues(t *testing.T) {
	srv, _ := newTestServer(t)
	id := startForm(t, srv, "job").Session
	call(t, srv.handleFormNext, "form-next", map[string]any{"session": id})

	set(t, srv, id, "fullName", "Alice")
	set(t, srv, id, "email", "alice@example.com")
	step := decodeStep(t, call(t, srv.handleFormNext, "form-next", map[string]any{"session": id}))
	require.True(t, *step.Moved)

	step = decodeStep(t, call(t, srv.handleFormBack, "form-back", map[string]any{"session": id}))
	assert.True(t, *step.Moved)
	require.Len(t, step.Fields, 3)
	require.NotNil(t, step.Fields[0].Value)
	assert.Equal(t, "Alice", step.Fields[0].Value.String())
	assert.Nil(t, step.Fields[2].Value)
}

func TestHandleFormSubmit_Job(t *testing.T) {
	srv, out := newTestServer(t)
	id := startForm(t, srv, "job").Session
	next := func() stepJSON {
		return decodeStep(t, call(t, srv.handleFormNext, "form-next", map[string]any{"session": id}))
	}

	text := call(t, srv.handleFormSubmit, "form-submit", map[string]any{"session": id})
	assert.Equal(t, "error: submit is only available on the final step (currently on step 1 of 7)", text)

	next()
	set(t, srv, id, "fullName", "Alice")
	set(t, srv, id, "email", "alice@example.com")
	assert.Equal(t, 20, next().Progress)

	set(t, srv, id, "position", "designer")
	set(t, srv, id, "experience", "4")
	next()
	next()

	set(t, srv, id, "portfolio", "https://alice.dev")
	set(t, srv, id, "cv", map[string]any{"name": "cv.pdf", "size": 6 << 20, "mime_type": "application/pdf"})
	step := next()
	require.False(t, *step.Moved)
	for _, f := range step.Fields {
		if f.Name == "cv" {
			assert.Equal(t, "CV must be 5.0 MiB or smaller", f.Error)
		}
	}

	set(t, srv, id, "cv", map[string]any{"name": "cv.pdf", "size": 1 << 20, "mime_type": "application/pdf"})
	require.True(t, *next().Moved)
	set(t, srv, id, "motivation", strings.Repeat("I love building games with small teams. ", 3))
	step = next()
	assert.True(t, step.Last)
	assert.Equal(t, 80, step.Progress)
	assert.NotEmpty(t, step.Summary)

	// A value cleared after its step was left blocks the submission.
	assert.Equal(t, "Cleared fullName", call(t, srv.handleFormSet, "form-set", map[string]any{"session": id, "name": "fullName"}))
	var res submitJSON
	require.NoError(t, json.Unmarshal([]byte(call(t, srv.handleFormSubmit, "form-submit", map[string]any{"session": id})), &res))
	assert.False(t, res.Submitted)
	assert.Equal(t, []apply.FieldError{{Field: "fullName", Message: "Name is required"}}, res.Errors)
	assert.Equal(t, 0, out.Delivered())

	set(t, srv, id, "fullName", "Alice")
	res = submitJSON{}
	require.NoError(t, json.Unmarshal([]byte(call(t, srv.handleFormSubmit, "form-submit", map[string]any{"session": id})), &res))
	assert.True(t, res.Submitted)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "job", res.Form)
	assert.Empty(t, res.DeliveryError)
	assert.Equal(t, 1, out.Delivered())
	require.NotNil(t, res.Final)
	assert.True(t, res.Final.Submitted)
	assert.Equal(t, 100, res.Final.Progress)

	// The session is discarded once submitted.
	unknown := `error: unknown session "` + id + `"`
	assert.Equal(t, unknown, call(t, srv.handleFormView, "form-view", map[string]any{"session": id}))
	assert.Equal(t, unknown, call(t, srv.handleFormSubmit, "form-submit", map[string]any{"session": id}))
	assert.Equal(t, unknown, set(t, srv, id, "fullName", "Bob"))
	assert.Equal(t, 1, out.Delivered())
}

func TestHandleFormSubmit_ReleasesSession(t *testing.T) {
	srv, _ := newTestServer(t)
	for i := 0; i < 50; i++ {
		startForm(t, srv, "contact")
	}
	id := startForm(t, srv, "contact").Session
	require.Equal(t, 51, srv.sessions.len())

	set(t, srv, id, "name", "Alice")
	set(t, srv, id, "email", "alice@example.com")
	set(t, srv, id, "subject", "Hello")
	set(t, srv, id, "message", "We would like a game.")

	var res submitJSON
	require.NoError(t, json.Unmarshal([]byte(call(t, srv.handleFormSubmit, "form-submit", map[string]any{"session": id})), &res))
	require.True(t, res.Submitted)
	assert.Equal(t, 50, srv.sessions.len())
}

func TestHandleFormSubmit_RejectedKeepsSession(t *testing.T) {
	srv, _ := newTestServer(t)
	id := startForm(t, srv, "contact").Session

	var res submitJSON
	require.NoError(t, json.Unmarshal([]byte(call(t, srv.handleFormSubmit, "form-submit", map[string]any{"session": id})), &res))
	assert.False(t, res.Submitted)
	assert.Nil(t, res.Final)
	assert.Equal(t, 1, srv.sessions.len())
}

func TestHandleFormSubmit_DeliveryFailure(t *testing.T) {
	srv, out := newTestServer(t)
	require.NoError(t, out.Close())

	id := startForm(t, srv, "contact").Session
	set(t, srv, id, "name", "Alice")
	set(t, srv, id, "email", "alice@example.com")
	set(t, srv, id, "subject", "Hello")
	set(t, srv, id, "message", "We would like a game.")

	var res submitJSON
	require.NoError(t, json.Unmarshal([]byte(call(t, srv.handleFormSubmit, "form-submit", map[string]any{"session": id})), &res))
	assert.True(t, res.Submitted)
	assert.Equal(t, "outbox closed", res.DeliveryError)
}

func TestHandleFormCancel(t *testing.T) {
	srv, _ := newTestServer(t)
	id := startForm(t, srv, "contact").Session

	assert.Equal(t, "Cancelled session "+id, call(t, srv.handleFormCancel, "form-cancel", map[string]any{"session": id}))
	text := call(t, srv.handleFormView, "form-view", map[string]any{"session": id})
	assert.Equal(t, `error: unknown session "`+id+`"`, text)
}

func TestHandleFormSet_ConcurrentCalls(t *testing.T) {
	srv, _ := newTestServer(t)
	id := startForm(t, srv, "contact").Session

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			set(t, srv, id, "company", "PlayPals")
			call(t, srv.handleFormView, "form-view", map[string]any{"session": id})
		}()
	}
	wg.Wait()

	step := decodeStep(t, call(t, srv.handleFormView, "form-view", map[string]any{"session": id}))
	for _, f := range step.Fields {
		if f.Name == "company" {
			require.NotNil(t, f.Value)
			assert.Equal(t, "PlayPals", f.Value.String())
		}
	}
}
