// Package schemaconf 从 YAML/JSON 配置文件中加载 schema 声明，以及编码器与日志设置。
//
//	log:
//	  level: info
//	  stdout: true
//	coder:
//	  max-var-bytes: 1048576
//	  workers: 8
//	schemas:
//	  user:
//	    - { name: id, kind: int32 }
//	    - { name: tags, kind: list, elem: { kind: string } }
//	    - { name: addr, kind: nested, schema: address }
//	  address:
//	    - { name: zip, kind: fixedbytes, size: 5 }
//
// 类型名大小写不敏感；schema 名同样大小写不敏感，统一以小写形式保存。
// 加载结果是调用方持有的 Catalog，包内不维护任何全局注册表。
package schemaconf

import (
	"io"
	"sort"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/lk2023060901/coders-go/pkg/coder"
	"github.com/lk2023060901/coders-go/pkg/log"
	"github.com/lk2023060901/coders-go/pkg/util/merr"
	"github.com/lk2023060901/coders-go/pkg/util/typeutil"
	"github.com/lk2023060901/coders-go/pkg/util/viper"
)

// FieldSpec 为配置文件中的单个字段声明。
type FieldSpec struct {
	Name string `mapstructure:"name"`
	Kind string `mapstructure:"kind"`
	// Size 仅用于 fixedbytes。
	Size int `mapstructure:"size"`
	// Elem 仅用于 list。
	Elem *FieldSpec `mapstructure:"elem"`
	// Schema 仅用于 nested，引用同一文件中的另一个 schema。
	Schema string `mapstructure:"schema"`
}

// CoderConfig 为 Coder 及批量编解码的配置。
type CoderConfig struct {
	// MaxVarBytes 为变长负载的上限，0 表示使用默认值。
	MaxVarBytes uint32 `mapstructure:"max-var-bytes"`
	// Workers 为批量编解码的并发数，0 表示使用 CPU 核心数。
	Workers int `mapstructure:"workers"`
}

type fileConfig struct {
	Log     log.Config             `mapstructure:"log"`
	Coder   CoderConfig            `mapstructure:"coder"`
	Schemas map[string][]FieldSpec `mapstructure:"schemas"`
}

// Catalog 为一次加载得到的全部配置。
type Catalog struct {
	Log     log.Config
	Coder   CoderConfig
	Schemas map[string]*coder.Schema
}

// Load 从文件加载配置，文件类型由扩展名决定（.yaml/.yml/.json）。
func Load(path string) (*Catalog, error) {
	cfg := viper.New()
	if err := cfg.LoadFile(path); err != nil {
		return nil, merr.WrapErrParameterInvalidMsg("schemaconf: load %s: %v", path, err)
	}
	return fromConfig(cfg)
}

// LoadReader 从 r 加载配置，format 为 yaml、yml 或 json。
func LoadReader(r io.Reader, format string) (*Catalog, error) {
	cfg := viper.New()
	if err := cfg.LoadReader(r, format); err != nil {
		return nil, merr.WrapErrParameterInvalidMsg("schemaconf: read %s config: %v", format, err)
	}
	return fromConfig(cfg)
}

func fromConfig(cfg *viper.Config) (*Catalog, error) {
	var fc fileConfig
	if err := cfg.Unmarshal(&fc); err != nil {
		return nil, merr.WrapErrParameterInvalidMsg("schemaconf: decode config: %v", err)
	}

	schemas, err := build(fc.Schemas)
	if err != nil {
		return nil, err
	}
	c := &Catalog{
		Log:     fc.Log,
		Coder:   fc.Coder,
		Schemas: schemas,
	}

	logger := log.With(log.FieldComponent("schemaconf"))
	for _, name := range c.Names() {
		logger.Debug("schema loaded", zap.String("name", name), log.FieldSchema(schemas[name]))
	}
	logger.Debug("schema catalog loaded",
		zap.Int("schemas", len(schemas)),
		zap.Uint32("maxVarBytes", c.Coder.MaxVarBytes),
		zap.Int("workers", c.Coder.Workers))
	return c, nil
}

// Names 返回按字母序排列的 schema 名。
func (c *Catalog) Names() []string {
	names := lo.Keys(c.Schemas)
	sort.Strings(names)
	return names
}

// Schema 按名称（大小写不敏感）查找 schema。
func (c *Catalog) Schema(name string) (*coder.Schema, bool) {
	s, ok := c.Schemas[strings.ToLower(name)]
	return s, ok
}

// NewCoder 使用配置中的选项为指定 schema 创建 Coder，opts 会覆盖配置中的同名选项。
func (c *Catalog) NewCoder(name string, opts ...coder.Option) (coder.Coder, error) {
	s, ok := c.Schema(name)
	if !ok {
		return nil, merr.WrapErrParameterInvalidMsg("schemaconf: unknown schema %q", name)
	}
	all := append([]coder.Option{
		coder.WithMaxVarBytes(c.Coder.MaxVarBytes),
		coder.WithLogger(log.With(log.FieldSchema(s))),
	}, opts...)
	return coder.New(s, all...)
}

// BatchOptions 返回配置中的批量编解码选项。
func (c *Catalog) BatchOptions() []coder.BatchOption {
	return []coder.BatchOption{coder.WithWorkers(c.Coder.Workers)}
}

// InitLogger 按配置中的 log 段初始化并替换全局 Logger。
func (c *Catalog) InitLogger() error {
	return log.Init(&c.Log)
}

// resolver 将字段声明解析为 schema，nested 引用按需递归解析并检测循环引用。
type resolver struct {
	specs    map[string][]FieldSpec
	built    map[string]*coder.Schema
	visiting typeutil.Set[string]
}

func build(specs map[string][]FieldSpec) (map[string]*coder.Schema, error) {
	r := &resolver{
		specs:    make(map[string][]FieldSpec, len(specs)),
		built:    make(map[string]*coder.Schema, len(specs)),
		visiting: typeutil.NewSet[string](),
	}
	for name, fields := range specs {
		r.specs[strings.ToLower(name)] = fields
	}

	names := lo.Keys(r.specs)
	sort.Strings(names)
	for _, name := range names {
		if _, err := r.resolve(name); err != nil {
			return nil, err
		}
	}
	return r.built, nil
}

func (r *resolver) resolve(name string) (*coder.Schema, error) {
	name = strings.ToLower(name)
	if s, ok := r.built[name]; ok {
		return s, nil
	}
	specs, ok := r.specs[name]
	if !ok {
		return nil, merr.WrapErrSchemaInvalid("unknown schema reference", name)
	}
	if !r.visiting.TryInsert(name) {
		return nil, merr.WrapErrSchemaInvalid("cyclic schema reference", name)
	}
	defer r.visiting.Remove(name)

	fields := make([]coder.Field, len(specs))
	for i, spec := range specs {
		k, err := r.kind(name+"."+spec.Name, spec)
		if err != nil {
			return nil, err
		}
		fields[i] = coder.F(spec.Name, k)
	}
	s, err := coder.NewSchema(fields...)
	if err != nil {
		return nil, merr.WrapErrAt(err, name)
	}
	r.built[name] = s
	return s, nil
}

func (r *resolver) kind(path string, spec FieldSpec) (coder.Kind, error) {
	tag, ok := coder.ParseKindTag(spec.Kind)
	if !ok {
		return coder.Kind{}, merr.WrapErrSchemaInvalid("unknown kind "+strings.TrimSpace(spec.Kind), path)
	}
	switch tag {
	case coder.TagFixedBytes:
		return coder.FixedBytes(spec.Size), nil
	case coder.TagList:
		if spec.Elem == nil {
			return coder.Kind{}, merr.WrapErrSchemaInvalid("list without elem", path)
		}
		elem, err := r.kind(path+"[]", *spec.Elem)
		if err != nil {
			return coder.Kind{}, err
		}
		return coder.List(elem), nil
	case coder.TagNested:
		if spec.Schema == "" {
			return coder.Kind{}, merr.WrapErrSchemaInvalid("nested without schema", path)
		}
		s, err := r.resolve(spec.Schema)
		if err != nil {
			return coder.Kind{}, err
		}
		return coder.Nested(s), nil
	default:
		k, _ := coder.KindOf(tag)
		return k, nil
	}
}
