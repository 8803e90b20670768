package stage

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ByLCY/designcanvas/geometry"
)

//go:embed platforms.yaml
var builtinCatalog []byte

// DefaultAspect 是宽高比无法解析时使用的 16:9。
const DefaultAspect = 16.0 / 9.0

// SafeZones 是平台边缘的安全区，单位为平台原始像素。
type SafeZones struct {
	Top    float64 `yaml:"top" json:"top"`
	Right  float64 `yaml:"right" json:"right"`
	Bottom float64 `yaml:"bottom" json:"bottom"`
	Left   float64 `yaml:"left" json:"left"`
}

// Specs 汇总平台的附加规格。
type Specs struct {
	SafeZones *SafeZones `yaml:"safeZones" json:"safeZones,omitempty"`
}

// Platform 描述一个输出平台。
type Platform struct {
	ID          string        `yaml:"id" json:"id"`
	Name        string        `yaml:"name" json:"name"`
	Dimensions  geometry.Size `yaml:"dimensions" json:"dimensions"`
	AspectRatio string        `yaml:"aspectRatio" json:"aspectRatio"`
	Specs       Specs         `yaml:"specs" json:"specs"`
}

// Aspect 返回宽高比，解析失败时为 16:9。
func (p *Platform) Aspect() float64 {
	if p == nil {
		return DefaultAspect
	}
	return ParseAspect(p.AspectRatio)
}

// SafeZone 把平台安全区按 stage/platform 的比例缩放到舞台上。
// 平台没有安全区或尺寸无效时返回 false。
func (p *Platform) SafeZone(stage geometry.Size) (geometry.Rect, bool) {
	if p == nil || p.Specs.SafeZones == nil || !p.Dimensions.Valid() {
		return geometry.Rect{}, false
	}
	z := p.Specs.SafeZones
	sx := stage.Width / p.Dimensions.Width
	sy := stage.Height / p.Dimensions.Height
	return geometry.Rect{
		X:      z.Left * sx,
		Y:      z.Top * sy,
		Width:  stage.Width - (z.Left+z.Right)*sx,
		Height: stage.Height - (z.Top+z.Bottom)*sy,
	}, true
}

// ParseAspect 解析 "W:H"，任一部分无效时返回 16:9。
func ParseAspect(s string) float64 {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return DefaultAspect
	}
	a, errA := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	b, errB := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errA != nil || errB != nil || a <= 0 || b <= 0 {
		return DefaultAspect
	}
	return a / b
}

// Catalog 是按 id 检索的平台列表。
type Catalog struct {
	Platforms []Platform `yaml:"platforms"`
}

// Lookup 按 id（大小写不敏感）查找平台。
func (c *Catalog) Lookup(id string) (*Platform, bool) {
	for i := range c.Platforms {
		if strings.EqualFold(c.Platforms[i].ID, id) {
			return &c.Platforms[i], true
		}
	}
	return nil, false
}

// IDs 返回全部平台 id。
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.Platforms))
	for _, p := range c.Platforms {
		ids = append(ids, p.ID)
	}
	return ids
}

// DecodeCatalog 解析 YAML 平台目录。
func DecodeCatalog(r io.Reader) (*Catalog, error) {
	var cat Catalog
	if err := yaml.NewDecoder(r).Decode(&cat); err != nil {
		return nil, fmt.Errorf("解析平台目录失败: %w", err)
	}
	for _, p := range cat.Platforms {
		if p.ID == "" {
			return nil, fmt.Errorf("平台目录中存在缺少 id 的条目")
		}
	}
	return &cat, nil
}

// LoadCatalog 从文件读取平台目录。
func LoadCatalog(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开平台目录失败: %w", err)
	}
	defer f.Close()
	return DecodeCatalog(f)
}

// BuiltinCatalog 返回内置平台目录。
func BuiltinCatalog() *Catalog {
	cat, err := DecodeCatalog(strings.NewReader(string(builtinCatalog)))
	if err != nil {
		panic(err)
	}
	return cat
}
