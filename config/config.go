package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

const (
	defaultLocation = "global"
	defaultLanguage = "en-US"
	servingConfigID = "default_search"
)

// locations 支持的 Discovery Engine 位置
var locations = []string{"global", "us", "eu"}

// ConfigError 启动期配置错误（致命）
type ConfigError struct {
	Name   string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s %s", e.Name, e.Reason)
}

// AppConfig 应用整体配置，Load 之后只读
type AppConfig struct {
	Project  int64  // Google Cloud 项目编号
	Location string // global / us / eu
	Engine   string // 搜索引擎 ID
	Language string // 查询语言，如 en-US
}

// LoadConfig 加载配置：先读可选的 .env 文件，再从环境变量解析
func LoadConfig(envFiles ...string) (*AppConfig, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file failed: %w", err)
	}
	return FromEnv()
}

// FromEnv 从当前进程环境变量解析配置
func FromEnv() (*AppConfig, error) {
	project, err := EnvInt("PROJECT", true, nil)
	if err != nil {
		return nil, err
	}
	location, err := EnvEnum("LOCATION", locations, defaultLocation)
	if err != nil {
		return nil, err
	}
	engine := EnvString("ENGINE", "")
	if engine == "" {
		return nil, &ConfigError{Name: "ENGINE", Reason: "is required but not set"}
	}

	return &AppConfig{
		Project:  project,
		Location: location,
		Engine:   engine,
		Language: EnvString("LANGUAGE", defaultLanguage),
	}, nil
}

// EnginePath 引擎资源路径
func (c *AppConfig) EnginePath() string {
	return fmt.Sprintf("projects/%d/locations/%s/collections/default_collection/engines/%s",
		c.Project, c.Location, c.Engine)
}

// ServingConfig 搜索与问答共用的 serving config 资源路径
func (c *AppConfig) ServingConfig() string {
	return c.EnginePath() + "/servingConfigs/" + servingConfigID
}

// SessionWildcard 让服务端新建会话的通配会话路径
func (c *AppConfig) SessionWildcard() string {
	return c.EnginePath() + "/sessions/-"
}

// Endpoint 按位置选择 API 地址
func (c *AppConfig) Endpoint() string {
	if c.Location == defaultLocation {
		return "discoveryengine.googleapis.com:443"
	}
	return c.Location + "-discoveryengine.googleapis.com:443"
}
