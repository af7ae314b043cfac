package engine

import (
	"context"

	"cloud.google.com/go/discoveryengine/apiv1alpha/discoveryenginepb"
	"go.uber.org/zap"

	"knowledge-search-mcp/config"
)

const searchPageSize = 10

// SessionInfo 一次搜索产生的会话标识，只在同一次查询中使用
type SessionInfo struct {
	Name    string
	QueryID string
}

// Resolver 会话解析器
type Resolver struct {
	api    SearchAPI
	cfg    *config.AppConfig
	logger *zap.Logger
}

func NewResolver(api SearchAPI, cfg *config.AppConfig, logger *zap.Logger) *Resolver {
	return &Resolver{api: api, cfg: cfg, logger: logger}
}

// ResolveSession 发起一次搜索并取回 session 名称与 query id
func (r *Resolver) ResolveSession(ctx context.Context, query string) (*SessionInfo, error) {
	resp, err := r.api.Search(ctx, r.buildRequest(query))
	if err != nil {
		r.logger.Error("search request failed", zap.String("query", query), zap.Error(err))
		return nil, ErrSession
	}
	info := resp.GetSessionInfo()
	if info == nil {
		r.logger.Error("no session info returned",
			zap.String("query", query),
			zap.Int("results", len(resp.GetResults())))
		return nil, ErrSession
	}
	return &SessionInfo{Name: info.GetName(), QueryID: info.GetQueryId()}, nil
}

func (r *Resolver) buildRequest(query string) *discoveryenginepb.SearchRequest {
	return &discoveryenginepb.SearchRequest{
		ServingConfig: r.cfg.ServingConfig(),
		Query:         query,
		PageSize:      searchPageSize,
		LanguageCode:  r.cfg.Language,
		QueryExpansionSpec: &discoveryenginepb.SearchRequest_QueryExpansionSpec{
			Condition: discoveryenginepb.SearchRequest_QueryExpansionSpec_AUTO,
		},
		SpellCorrectionSpec: &discoveryenginepb.SearchRequest_SpellCorrectionSpec{
			Mode: discoveryenginepb.SearchRequest_SpellCorrectionSpec_AUTO,
		},
		ContentSearchSpec: &discoveryenginepb.SearchRequest_ContentSearchSpec{
			ExtractiveContentSpec: &discoveryenginepb.SearchRequest_ContentSearchSpec_ExtractiveContentSpec{
				MaxExtractiveAnswerCount: 1,
			},
		},
		Session: r.cfg.SessionWildcard(),
	}
}
