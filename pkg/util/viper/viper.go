package viper

import (
	"io"
	"path/filepath"
	"strings"

	spfviper "github.com/spf13/viper"
)

// Config 封装 spf13/viper 实例，对外提供精简的 YAML/JSON 配置加载接口。
type Config struct {
	v *spfviper.Viper
}

// New 创建一个空的 Config。
// 在调用 Unmarshal/UnmarshalKey 之前需要先调用 LoadFile 或 LoadReader 加载配置。
func New() *Config {
	return &Config{
		v: spfviper.New(),
	}
}

// LoadFile 将 YAML 或 JSON 配置文件加载到 Config 中。
// 文件类型通过扩展名（.yaml/.yml/.json）推断。
func (c *Config) LoadFile(path string) error {
	if c.v == nil {
		c.v = spfviper.New()
	}

	c.v.SetConfigFile(path)

	if format := formatOf(filepath.Ext(path)); format != "" {
		c.v.SetConfigType(format)
	}
	// 其它扩展名交给 viper 自行推断，或在读取时返回清晰的错误信息。

	return c.v.ReadInConfig()
}

// LoadReader 从 r 读取配置，format 为 yaml、yml 或 json。
func (c *Config) LoadReader(r io.Reader, format string) error {
	if c.v == nil {
		c.v = spfviper.New()
	}
	if f := formatOf("." + strings.TrimPrefix(format, ".")); f != "" {
		c.v.SetConfigType(f)
	} else {
		c.v.SetConfigType(format)
	}
	return c.v.ReadConfig(r)
}

// IsSet 判断 key 是否出现在已加载的配置中。
func (c *Config) IsSet(key string) bool {
	if c.v == nil {
		return false
	}
	return c.v.IsSet(key)
}

// Unmarshal 将完整配置反序列化到 dst。
// dst 应为结构体或 map 的指针。
func (c *Config) Unmarshal(dst interface{}) error {
	if c.v == nil {
		return nil
	}
	return c.v.Unmarshal(dst)
}

// UnmarshalKey 将指定 key 对应的子配置反序列化到 dst。
// dst 应为结构体或 map 的指针。
func (c *Config) UnmarshalKey(key string, dst interface{}) error {
	if c.v == nil {
		return nil
	}
	return c.v.UnmarshalKey(key, dst)
}

func formatOf(ext string) string {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	default:
		return ""
	}
}
