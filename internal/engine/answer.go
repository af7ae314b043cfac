package engine

import (
	"context"

	"cloud.google.com/go/discoveryengine/apiv1alpha/discoveryenginepb"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"

	"knowledge-search-mcp/config"
)

const answerModelVersion = "stable"

// AnswerResult 一次答案生成的结果
type AnswerResult struct {
	State            discoveryenginepb.Answer_State
	Text             string
	Citations        []*discoveryenginepb.Answer_Citation
	RelatedQuestions []string
}

// Succeeded 服务端是否报告答案生成成功
func (a *AnswerResult) Succeeded() bool {
	return a.State == discoveryenginepb.Answer_SUCCEEDED
}

// Generator 答案生成器
type Generator struct {
	api    AnswerAPI
	cfg    *config.AppConfig
	logger *zap.Logger
}

func NewGenerator(api AnswerAPI, cfg *config.AppConfig, logger *zap.Logger) *Generator {
	return &Generator{api: api, cfg: cfg, logger: logger}
}

// GenerateAnswer 在 ResolveSession 返回的会话上生成带引用的答案。
// sessionName 和 queryID 必须来自同一个 query。
func (g *Generator) GenerateAnswer(ctx context.Context, query, sessionName, queryID string) (*AnswerResult, error) {
	resp, err := g.api.AnswerQuery(ctx, g.buildRequest(query, sessionName, queryID))
	if err != nil {
		g.logger.Error("answer query failed",
			zap.String("session", sessionName),
			zap.String("query_id", queryID),
			zap.Error(err))
		return nil, ErrAnswer
	}
	answer := resp.GetAnswer()
	return &AnswerResult{
		State:            answer.GetState(),
		Text:             answer.GetAnswerText(),
		Citations:        answer.GetCitations(),
		RelatedQuestions: answer.GetRelatedQuestions(),
	}, nil
}

func (g *Generator) buildRequest(query, sessionName, queryID string) *discoveryenginepb.AnswerQueryRequest {
	return &discoveryenginepb.AnswerQueryRequest{
		ServingConfig: g.cfg.ServingConfig(),
		Query: &discoveryenginepb.Query{
			Content: &discoveryenginepb.Query_Text{Text: query},
			QueryId: queryID,
		},
		Session: sessionName,
		RelatedQuestionsSpec: &discoveryenginepb.AnswerQueryRequest_RelatedQuestionsSpec{
			Enable: true,
		},
		AnswerGenerationSpec: &discoveryenginepb.AnswerQueryRequest_AnswerGenerationSpec{
			ModelSpec: &discoveryenginepb.AnswerQueryRequest_AnswerGenerationSpec_ModelSpec{
				ModelVersion: answerModelVersion,
			},
			IncludeCitations:            true,
			IgnoreAdversarialQuery:      true,
			IgnoreNonAnswerSeekingQuery: false,
			IgnoreLowRelevantContent:    proto.Bool(true),
		},
	}
}
