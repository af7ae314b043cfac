package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"knowledge-search-mcp/coordinator"
)

var errEmptyQuery = errors.New("query must not be empty")

type searchArgs struct {
	Query string `json:"query"`
}

// einoKnowledgeTool 实际执行查询的 eino 工具
type einoKnowledgeTool struct {
	search coordinator.SearchFunc
	logger *zap.Logger
}

func (e *einoKnowledgeTool) Info(_ context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: ToolName,
		Desc: toolDesc,
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"query": {Type: schema.String, Desc: queryDesc, Required: true},
		}),
	}, nil
}

// InvokableRun 执行查询并渲染为文本；search 内部 panic 也会被兜底
func (e *einoKnowledgeTool) InvokableRun(ctx context.Context, argumentsInJSON string, _ ...einotool.Option) (text string, err error) {
	var args searchArgs
	if err := json.Unmarshal([]byte(argumentsInJSON), &args); err != nil {
		return "", fmt.Errorf("parse %s arguments failed: %w", ToolName, err)
	}
	if args.Query == "" {
		return "", errEmptyQuery
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("tool search panicked", zap.Any("panic", r), zap.Stack("stack"))
			text, err = internalErrorText, nil
		}
	}()

	e.logger.Info("knowledge search", zap.String("query", args.Query))
	return Render(e.search(ctx, args.Query)), nil
}
