// Package engine 封装 Vertex AI Search (Discovery Engine) 的两步调用：
// 先 search 建立会话拿到 session/queryId，再用它们调用 answerQuery 生成答案。
package engine

import (
	"context"
	"errors"
	"fmt"

	discoveryengine "cloud.google.com/go/discoveryengine/apiv1alpha"
	"cloud.google.com/go/discoveryengine/apiv1alpha/discoveryenginepb"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"knowledge-search-mcp/config"
)

var (
	// ErrSession 会话解析失败（原因只写日志）
	ErrSession = errors.New("failed to get search session")
	// ErrAnswer 答案生成失败（原因只写日志）
	ErrAnswer = errors.New("failed to generate answer")

	errNoResponse = errors.New("search returned no response page")
)

// SearchAPI 非分页搜索调用
type SearchAPI interface {
	Search(ctx context.Context, req *discoveryenginepb.SearchRequest) (*discoveryenginepb.SearchResponse, error)
}

// AnswerAPI 答案生成调用
type AnswerAPI interface {
	AnswerQuery(ctx context.Context, req *discoveryenginepb.AnswerQueryRequest) (*discoveryenginepb.AnswerQueryResponse, error)
}

// Clients 进程级共享的 Discovery Engine 客户端
type Clients struct {
	search *discoveryengine.SearchClient
	conv   *discoveryengine.ConversationalSearchClient
}

// NewClients 按配置的位置拨号两个客户端，凭据走 ADC
func NewClients(ctx context.Context, cfg *config.AppConfig, opts ...option.ClientOption) (*Clients, error) {
	opts = append([]option.ClientOption{option.WithEndpoint(cfg.Endpoint())}, opts...)

	search, err := discoveryengine.NewSearchClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create search client failed: %w", err)
	}
	conv, err := discoveryengine.NewConversationalSearchClient(ctx, opts...)
	if err != nil {
		_ = search.Close()
		return nil, fmt.Errorf("create conversational search client failed: %w", err)
	}
	return &Clients{search: search, conv: conv}, nil
}

// SearchAPI 返回只取第一页的搜索适配器
func (c *Clients) SearchAPI() SearchAPI {
	return &searchAdapter{client: c.search}
}

// AnswerAPI 返回答案生成适配器
func (c *Clients) AnswerAPI() AnswerAPI {
	return &answerAdapter{client: c.conv}
}

// Close 释放底层连接
func (c *Clients) Close() error {
	return errors.Join(c.search.Close(), c.conv.Close())
}

type searchAdapter struct {
	client *discoveryengine.SearchClient
}

// Search 只拉取一页，返回该页的原始响应（session_info 在原始响应上）
func (a *searchAdapter) Search(ctx context.Context, req *discoveryenginepb.SearchRequest) (*discoveryenginepb.SearchResponse, error) {
	it := a.client.Search(ctx, req)
	if _, err := it.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return nil, err
	}
	resp, ok := it.Response.(*discoveryenginepb.SearchResponse)
	if !ok || resp == nil {
		return nil, errNoResponse
	}
	return resp, nil
}

type answerAdapter struct {
	client *discoveryengine.ConversationalSearchClient
}

func (a *answerAdapter) AnswerQuery(ctx context.Context, req *discoveryenginepb.AnswerQueryRequest) (*discoveryenginepb.AnswerQueryResponse, error) {
	return a.client.AnswerQuery(ctx, req)
}
