package config

import (
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// EnvInt 读取整数环境变量；required 为 false 时未设置返回 def
func EnvInt(name string, required bool, def *int64) (int64, error) {
	val := strings.TrimSpace(os.Getenv(name))
	if val == "" {
		if required {
			return 0, &ConfigError{Name: name, Reason: "is required but not set"}
		}
		if def != nil {
			return *def, nil
		}
		return 0, &ConfigError{Name: name, Reason: "is not set and no default provided"}
	}
	n, ok := parseDecimalInt(val)
	if !ok {
		return 0, &ConfigError{Name: name, Reason: "must be an integer, got " + val}
	}
	return n, nil
}

// parseDecimalInt 按十进制解析（前导 0 不是八进制），也接受 1e3、12.0 这类整数值
func parseDecimalInt(val string) (int64, bool) {
	if n, err := strconv.ParseInt(val, 10, 64); err == nil {
		return n, true
	}
	f, err := cast.ToFloat64E(val)
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// EnvEnum 读取枚举环境变量，值必须在 allowed 中；未设置返回 def
func EnvEnum(name string, allowed []string, def string) (string, error) {
	val := os.Getenv(name)
	if val == "" {
		return def, nil
	}
	if !slices.Contains(allowed, val) {
		return "", &ConfigError{Name: name, Reason: "must be one of: " + strings.Join(allowed, ", ") + ", got " + val}
	}
	return val, nil
}

// EnvString 读取字符串环境变量；未设置或为空返回 def
func EnvString(name, def string) string {
	if val := os.Getenv(name); val != "" {
		return val
	}
	return def
}
