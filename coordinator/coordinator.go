package coordinator

import (
	"context"

	"go.uber.org/zap"

	"knowledge-search-mcp/internal/engine"
)

// NoAnswer 服务端未成功生成答案时返回的文本（属于正常结果，不是错误）
const NoAnswer = "No answer found"

// Outcome 一次查询的结果：要么有 Answer，要么 Answer 为空且 Error 非空
type Outcome struct {
	Answer *string
	Error  string
}

// Answered 成功结果
func Answered(text string) Outcome {
	return Outcome{Answer: &text}
}

// Failed 失败结果
func Failed(msg string) Outcome {
	return Outcome{Error: msg}
}

// SearchFunc 查询到答案的函数签名（工具层的注入点）
type SearchFunc func(ctx context.Context, query string) Outcome

// SessionResolver 第一步：建立搜索会话
type SessionResolver interface {
	ResolveSession(ctx context.Context, query string) (*engine.SessionInfo, error)
}

// AnswerGenerator 第二步：在会话上生成答案
type AnswerGenerator interface {
	GenerateAnswer(ctx context.Context, query, sessionName, queryID string) (*engine.AnswerResult, error)
}

// Coordinator 流程协调器，把两步调用合成一次查询
type Coordinator struct {
	resolver  SessionResolver
	generator AnswerGenerator
	logger    *zap.Logger
}

// NewCoordinator 创建协调器实例
func NewCoordinator(resolver SessionResolver, generator AnswerGenerator, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		resolver:  resolver,
		generator: generator,
		logger:    logger,
	}
}

// Search 执行一次查询。不会返回 error，所有失败都转成 Failed。
func (c *Coordinator) Search(ctx context.Context, query string) Outcome {
	// 1. 建立会话，拿到 session 名称和 query id
	session, err := c.resolver.ResolveSession(ctx, query)
	if err != nil {
		c.logger.Error("search failed", zap.String("stage", "session"), zap.Error(err))
		return Failed(err.Error())
	}

	// 2. 第二步依赖第一步的输出，只能串行
	answer, err := c.generator.GenerateAnswer(ctx, query, session.Name, session.QueryID)
	if err != nil {
		c.logger.Error("search failed", zap.String("stage", "answer"), zap.Error(err))
		return Failed(err.Error())
	}

	// 3. 非 SUCCEEDED 一律视为"没有答案"
	if !answer.Succeeded() {
		c.logger.Debug("answer not succeeded", zap.Stringer("state", answer.State))
		return Answered(NoAnswer)
	}
	return Answered(answer.Text)
}
