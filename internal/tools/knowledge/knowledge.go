package knowledge

import (
	"context"
	"encoding/json"
	"errors"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"knowledge-search-mcp/coordinator"
	"knowledge-search-mcp/internal/tool"
)

const (
	ToolName = "knowledge-search"

	toolDesc  = "Returns the result of searching knowledge base"
	queryDesc = "Query to search"

	errorPrefix       = "An error occurred: "
	internalErrorText = "An internal error occurred. Please try again later."
)

var errNoSearch = errors.New("knowledge tool requires a search function")

// KnowledgeTool 知识库问答工具，MCP 调用委托给 eino InvokableTool 实现
type KnowledgeTool struct {
	impl   einotool.InvokableTool
	logger *zap.Logger
}

// NewKnowledgeTool search 是注入点，测试时可以传入桩函数
func NewKnowledgeTool(search coordinator.SearchFunc, logger *zap.Logger) *KnowledgeTool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KnowledgeTool{
		impl:   &einoKnowledgeTool{search: search, logger: logger},
		logger: logger,
	}
}

// Constructor 构造函数（实现 tool.Constructor）
func Constructor(_ context.Context, deps tool.Dependencies) (tool.Tool, error) {
	if deps.Search == nil {
		return nil, errNoSearch
	}
	return NewKnowledgeTool(deps.Search, deps.Logger), nil
}

// GetDescriptor 实现工具接口
func (t *KnowledgeTool) GetDescriptor() *mcp.Tool {
	tol := mcp.NewTool(ToolName,
		mcp.WithDescription(toolDesc),
		mcp.WithString("query", mcp.Required(), mcp.MinLength(1), mcp.Description(queryDesc)),
	)
	return &tol
}

// Execute 实现工具接口。永远不向传输层返回 error。
func (t *KnowledgeTool) Execute(ctx context.Context, req mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("tool search panicked", zap.Any("panic", r), zap.Stack("stack"))
			result, err = mcp.NewToolResultText(internalErrorText), nil
		}
	}()

	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if query == "" {
		return mcp.NewToolResultError(errEmptyQuery.Error()), nil
	}

	args, err := json.Marshal(searchArgs{Query: query})
	if err != nil {
		t.logger.Error("参数序列化失败", zap.Error(err))
		return mcp.NewToolResultText(internalErrorText), nil
	}
	text, err := t.impl.InvokableRun(ctx, string(args))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

// Name 实现工具接口
func (t *KnowledgeTool) Name() string {
	return ToolName
}

// AsEinoTool 以 eino InvokableTool 的形式暴露同一能力，可挂到 eino 的 agent/graph 上
func (t *KnowledgeTool) AsEinoTool() einotool.InvokableTool {
	return t.impl
}

// Render 把 Outcome 映射成返回给调用方的文本
func Render(out coordinator.Outcome) string {
	if out.Answer != nil && *out.Answer != "" {
		return *out.Answer
	}
	if out.Error != "" {
		return errorPrefix + out.Error
	}
	return coordinator.NoAnswer
}
