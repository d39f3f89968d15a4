package autoload

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/assetforge/assetforge/engine/asset"
	"github.com/assetforge/assetforge/engine/core"
	"github.com/assetforge/assetforge/engine/infra/cache"
	"github.com/assetforge/assetforge/engine/tag"
)

// Manifest is the on-disk shape of one declaration file: a list of asset
// declarations built through the factory.
type Manifest struct {
	Assets []Declaration `yaml:"assets"`
}

// Declaration is one declarative asset. Rule references resolve through the
// factory's registry; tags resolve by full path against the tag tree.
type Declaration struct {
	Name        string         `yaml:"name"`
	Kind        string         `yaml:"kind"`
	Base        string         `yaml:"base"`
	Description string         `yaml:"description"`
	Tags        []string       `yaml:"tags"`
	Rules       []RuleDecl     `yaml:"rules"`
	Caching     string         `yaml:"caching"`
	Metadata    map[string]any `yaml:"metadata"`
	Sensitive   []string       `yaml:"sensitive"`
	Members     []MemberDecl   `yaml:"members"`
	Fields      []FieldDecl    `yaml:"fields"`
}

type RuleDecl struct {
	Path   string         `yaml:"path"`
	Params map[string]any `yaml:"params"`
}

type MemberDecl struct {
	Name     string         `yaml:"name"`
	Value    any            `yaml:"value"`
	Metadata map[string]any `yaml:"metadata"`
}

type FieldDecl struct {
	Name     string     `yaml:"name"`
	Required bool       `yaml:"required"`
	Rules    []RuleDecl `yaml:"rules"`
}

// parseManifest decodes one manifest file.
func parseManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding manifest %s: %w", path, err)
	}
	return &m, nil
}

func ruleRefs(decls []RuleDecl) []asset.RuleRef {
	refs := make([]asset.RuleRef, 0, len(decls))
	for _, d := range decls {
		refs = append(refs, asset.RuleRef{Path: d.Path, Params: d.Params})
	}
	return refs
}

// resolveTags maps declared tag paths to registered tags; unknown paths are
// declaration errors.
func resolveTags(tree *tag.Registry, paths []string) (tag.Set, error) {
	tags := make([]*tag.Tag, 0, len(paths))
	for _, p := range paths {
		t, ok := tree.Find(p)
		if !ok {
			return tag.Set{}, core.NewError(nil, core.ErrCodeInvalidDeclaration, map[string]any{
				"tag":    p,
				"reason": "tag path not registered",
			})
		}
		tags = append(tags, t)
	}
	return tag.NewSet(tags...), nil
}

func buildOptions(d *Declaration) ([]asset.BuildOption, error) {
	var opts []asset.BuildOption
	if len(d.Metadata) > 0 {
		opts = append(opts, asset.WithMetadata(d.Metadata))
	}
	if len(d.Sensitive) > 0 {
		opts = append(opts, asset.WithSensitive(d.Sensitive...))
	}
	switch d.Caching {
	case "":
	case string(cache.KindLRU):
		opts = append(opts, asset.WithCaching(cache.KindLRU))
	case string(cache.KindTTL):
		opts = append(opts, asset.WithCaching(cache.KindTTL))
	default:
		return nil, core.NewError(nil, core.ErrCodeInvalidDeclaration, map[string]any{
			"asset":   d.Name,
			"caching": d.Caching,
		})
	}
	return opts, nil
}

// build declares d through the factory.
func build(f *asset.Factory, d *Declaration) error {
	tags, err := resolveTags(f.TagTree(), d.Tags)
	if err != nil {
		return err
	}
	opts, err := buildOptions(d)
	if err != nil {
		return err
	}
	base := asset.BaseType(d.Base)
	switch asset.Kind(d.Kind) {
	case asset.KindPrimitive:
		_, err = f.BuildPrimitive(d.Name, base, opts...)
	case asset.KindAlias:
		_, err = f.BuildAlias(d.Name, base, ruleRefs(d.Rules), tags, d.Description, opts...)
	case asset.KindEnum:
		members := make([]asset.Member, 0, len(d.Members))
		for _, m := range d.Members {
			members = append(members, asset.Member{Name: m.Name, Value: m.Value, Metadata: m.Metadata})
		}
		_, err = f.BuildEnum(d.Name, base, d.Description, tags, members, opts...)
	case asset.KindModel:
		fields := make([]asset.FieldDef, 0, len(d.Fields))
		for _, fd := range d.Fields {
			fields = append(fields, asset.FieldDef{
				Name:     fd.Name,
				Required: fd.Required,
				Rules:    ruleRefs(fd.Rules),
			})
		}
		_, err = f.BuildModel(d.Name, d.Description, tags, fields, opts...)
	default:
		return core.NewError(nil, core.ErrCodeInvalidDeclaration, map[string]any{
			"asset": d.Name,
			"kind":  d.Kind,
		})
	}
	return err
}
