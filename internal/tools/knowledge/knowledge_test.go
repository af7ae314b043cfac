package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"knowledge-search-mcp/coordinator"
	"knowledge-search-mcp/internal/tool"
)

func fixed(out coordinator.Outcome) coordinator.SearchFunc {
	return func(context.Context, string) coordinator.Outcome { return out }
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = ToolName
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	assert.Equal(t, "text", text.Type)
	return text.Text
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		out  coordinator.Outcome
		want string
	}{
		{"answer", coordinator.Answered("Test answer"), "Test answer"},
		{"no answer", coordinator.Answered(coordinator.NoAnswer), "No answer found"},
		{"error", coordinator.Failed("API error"), "An error occurred: API error"},
		{"neither", coordinator.Outcome{}, "No answer found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.out))
		})
	}
}

func TestExecute(t *testing.T) {
	var gotQuery string
	kt := NewKnowledgeTool(func(_ context.Context, q string) coordinator.Outcome {
		gotQuery = q
		return coordinator.Answered("Test answer")
	}, zap.NewNop())

	res, err := kt.Execute(context.Background(), callRequest(map[string]any{"query": "Test query"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "Test answer", resultText(t, res))
	assert.Equal(t, "Test query", gotQuery)
}

func TestExecuteError(t *testing.T) {
	kt := NewKnowledgeTool(fixed(coordinator.Failed("API error")), zap.NewNop())

	res, err := kt.Execute(context.Background(), callRequest(map[string]any{"query": "Test query"}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "An error occurred: API error")
}

func TestExecuteRecoversPanic(t *testing.T) {
	kt := NewKnowledgeTool(func(context.Context, string) coordinator.Outcome {
		panic(fmt.Errorf("boom"))
	}, zap.NewNop())

	res, err := kt.Execute(context.Background(), callRequest(map[string]any{"query": "Test query"}))
	require.NoError(t, err)
	assert.Equal(t, internalErrorText, resultText(t, res))
}

type recordingInvokable struct {
	gotArgs string
	text    string
	err     error
}

func (r *recordingInvokable) Info(context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{Name: ToolName}, nil
}

func (r *recordingInvokable) InvokableRun(_ context.Context, argumentsInJSON string, _ ...einotool.Option) (string, error) {
	r.gotArgs = argumentsInJSON
	return r.text, r.err
}

func TestExecuteDelegatesToEinoTool(t *testing.T) {
	impl := &recordingInvokable{text: "from eino"}
	kt := &KnowledgeTool{impl: impl, logger: zap.NewNop()}

	res, err := kt.Execute(context.Background(), callRequest(map[string]any{"query": "Test query"}))
	require.NoError(t, err)
	assert.Equal(t, "from eino", resultText(t, res))
	assert.JSONEq(t, `{"query":"Test query"}`, impl.gotArgs)
	assert.Same(t, impl, kt.AsEinoTool())
}

func TestExecuteEinoToolError(t *testing.T) {
	kt := &KnowledgeTool{impl: &recordingInvokable{err: fmt.Errorf("bad arguments")}, logger: zap.NewNop()}

	res, err := kt.Execute(context.Background(), callRequest(map[string]any{"query": "Test query"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "bad arguments", resultText(t, res))
}

type panickingInvokable struct{}

func (panickingInvokable) Info(context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{Name: ToolName}, nil
}

func (panickingInvokable) InvokableRun(context.Context, string, ...einotool.Option) (string, error) {
	panic("nil session")
}

func TestExecuteRecoversToolPanic(t *testing.T) {
	kt := &KnowledgeTool{impl: panickingInvokable{}, logger: zap.NewNop()}

	res, err := kt.Execute(context.Background(), callRequest(map[string]any{"query": "Test query"}))
	require.NoError(t, err)
	assert.Equal(t, internalErrorText, resultText(t, res))
}

func TestExecuteInvalidQuery(t *testing.T) {
	called := false
	kt := NewKnowledgeTool(func(context.Context, string) coordinator.Outcome {
		called = true
		return coordinator.Outcome{}
	}, zap.NewNop())

	for _, args := range []map[string]any{nil, {"query": 42}, {"query": ""}} {
		res, err := kt.Execute(context.Background(), callRequest(args))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		resultText(t, res)
	}
	assert.False(t, called)
}

func TestExecuteIdempotent(t *testing.T) {
	kt := NewKnowledgeTool(func(_ context.Context, q string) coordinator.Outcome {
		return coordinator.Answered("answer for " + q)
	}, zap.NewNop())

	first, err := kt.Execute(context.Background(), callRequest(map[string]any{"query": "same"}))
	require.NoError(t, err)
	second, err := kt.Execute(context.Background(), callRequest(map[string]any{"query": "same"}))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDescriptor(t *testing.T) {
	desc := NewKnowledgeTool(fixed(coordinator.Outcome{}), nil).GetDescriptor()

	assert.Equal(t, "knowledge-search", desc.Name)
	assert.Equal(t, "Returns the result of searching knowledge base", desc.Description)
	assert.Equal(t, []string{"query"}, desc.InputSchema.Required)
	require.Contains(t, desc.InputSchema.Properties, "query")
	prop, ok := desc.InputSchema.Properties["query"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "string", prop["type"])
}

func TestConstructorRequiresSearch(t *testing.T) {
	_, err := Constructor(context.Background(), tool.Dependencies{})
	assert.ErrorIs(t, err, errNoSearch)
}

// 通过 ToolManager 注册到 MCPServer，再按 JSON-RPC 报文调用
func TestToolOverMCP(t *testing.T) {
	manager := tool.NewToolManager(tool.Dependencies{
		Search: fixed(coordinator.Answered("Test answer")),
		Logger: zap.NewNop(),
	})
	manager.Register(ToolName, Constructor)
	require.NoError(t, manager.InitTools(context.Background()))

	svr := server.NewMCPServer("test", "0.0.1", server.WithToolCapabilities(false))
	manager.RegisterToServer(svr)

	ctx := context.Background()
	svr.HandleMessage(ctx, []byte(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test client","version":"0.1.0"}}}`))

	resp := svr.HandleMessage(ctx, []byte(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"knowledge-search","arguments":{"query":"Test query"}}}`))
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded struct {
		Result struct {
			Content []map[string]any `json:"content"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, []map[string]any{{"type": "text", "text": "Test answer"}}, decoded.Result.Content)
}

func TestEinoTool(t *testing.T) {
	et := NewKnowledgeTool(fixed(coordinator.Failed("API error")), zap.NewNop()).AsEinoTool()

	info, err := et.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ToolName, info.Name)

	out, err := et.InvokableRun(context.Background(), `{"query":"Test query"}`)
	require.NoError(t, err)
	assert.Equal(t, "An error occurred: API error", out)

	_, err = et.InvokableRun(context.Background(), `{"query":""}`)
	assert.ErrorIs(t, err, errEmptyQuery)

	_, err = et.InvokableRun(context.Background(), `not json`)
	assert.Error(t, err)
}
