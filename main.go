package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"knowledge-search-mcp/config"
	"knowledge-search-mcp/coordinator"
	"knowledge-search-mcp/internal/engine"
	"knowledge-search-mcp/internal/log"
	"knowledge-search-mcp/internal/tool"
	"knowledge-search-mcp/internal/tools/knowledge"
)

const (
	serverName    = "mcp-vertex-ai-search-go-stdio"
	serverVersion = "0.0.1"
)

func main() {
	os.Exit(run())
}

func run() int {
	// 初始化日志（stderr）
	log.Init()
	defer log.Sync()
	logger := log.GetLogger()

	// 1. 加载配置，失败直接退出
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to get environment variables", zap.Error(err))
		return 1
	}
	logger.Info("配置加载成功",
		zap.Int64("project", cfg.Project),
		zap.String("location", cfg.Location),
		zap.String("engine", cfg.Engine),
		zap.String("language", cfg.Language))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. 初始化 Discovery Engine 客户端
	clients, err := engine.NewClients(ctx, cfg)
	if err != nil {
		logger.Error("创建 Discovery Engine 客户端失败", zap.Error(err))
		return 1
	}
	defer clients.Close()

	// 3. 组装协调器
	coor := coordinator.NewCoordinator(
		engine.NewResolver(clients.SearchAPI(), cfg, logger),
		engine.NewGenerator(clients.AnswerAPI(), cfg, logger),
		logger,
	)

	// 4. 初始化工具管理器
	toolManager := tool.NewToolManager(tool.Dependencies{
		Search: coor.Search,
		Logger: logger,
	})
	toolManager.Register(knowledge.ToolName, knowledge.Constructor)
	if err := toolManager.InitTools(ctx); err != nil {
		logger.Error("初始化工具失败", zap.Error(err))
		return 1
	}

	// 5. 启动MCP服务器（stdio）
	svr := server.NewMCPServer(serverName, serverVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	toolManager.RegisterToServer(svr)

	stdio := server.NewStdioServer(svr)
	stdio.SetErrorLogger(zap.NewStdLog(logger))

	logger.Info("MCP Server running on stdio")
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Failed to run MCP server", zap.Error(err))
		return 1
	}
	return 0
}
