package tool

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mark3labs/mcp-go/server"
)

// ToolManager 工具管理器
type ToolManager struct {
	tools        map[string]Tool
	constructors map[string]Constructor
	deps         Dependencies
	mu           sync.RWMutex
}

// NewToolManager 创建工具管理器实例
func NewToolManager(deps Dependencies) *ToolManager {
	return &ToolManager{
		tools:        make(map[string]Tool),
		constructors: make(map[string]Constructor),
		deps:         deps,
	}
}

// Register 注册工具构造函数（启动时调用）
func (m *ToolManager) Register(name string, constructor Constructor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.constructors[name] = constructor
}

// InitTools 用公共依赖初始化所有注册的工具
func (m *ToolManager) InitTools(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for toolName, constructor := range m.constructors {
		tool, err := constructor(ctx, m.deps)
		if err != nil {
			return fmt.Errorf("failed to initialize tool %s: %w", toolName, err)
		}
		if tool.Name() != toolName {
			return fmt.Errorf("tool registered as %s reports name %s", toolName, tool.Name())
		}
		m.tools[toolName] = tool
	}
	return nil
}

// GetTool 按名称获取已初始化的工具
func (m *ToolManager) GetTool(name string) (Tool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tool, ok := m.tools[name]
	if !ok {
		return nil, fmt.Errorf("tool not found: %s", name)
	}
	return tool, nil
}

// Tools 返回已初始化工具，按名称排序
func (m *ToolManager) Tools() []Tool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tools := make([]Tool, 0, len(m.tools))
	for _, t := range m.tools {
		tools = append(tools, t)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name() < tools[j].Name() })
	return tools
}

// RegisterToServer 将所有工具注册到MCP服务器
func (m *ToolManager) RegisterToServer(svr *server.MCPServer) {
	for _, tool := range m.Tools() {
		svr.AddTool(*tool.GetDescriptor(), tool.Execute)
	}
}
