package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"

	"github.com/stackplan/stackplan/pkg/catalog"
	"github.com/stackplan/stackplan/pkg/errors"
)

// Supported manifest formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
	FormatHCL  = "hcl"
)

// ValidFormats is the set of supported manifest formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatYAML: true,
	FormatTOML: true,
	FormatHCL:  true,
}

// DetectFormat infers the manifest format from a filename extension.
// Unknown extensions default to JSON.
func DetectFormat(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".hcl", ".tf":
		return FormatHCL
	default:
		return FormatJSON
	}
}

// Load decodes a manifest in the given format, applies defaults and
// normalizes whitespace. The filename is used for HCL diagnostics only.
func Load(data []byte, format, filename string) (*Requirements, error) {
	if !ValidFormats[format] {
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"unsupported manifest format %q (must be one of: json, yaml, toml, hcl)", format)
	}

	var req Requirements
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &req)
	case FormatYAML:
		err = yaml.Unmarshal(data, &req)
	case FormatTOML:
		err = toml.Unmarshal(data, &req)
	case FormatHCL:
		return loadHCL(data, filename)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode %s manifest", format)
	}

	req.ApplyDefaults()
	req.Normalize()
	return &req, nil
}

// LoadFile reads and decodes a manifest file, detecting the format from
// the file extension.
func LoadFile(path string) (*Requirements, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(data, DetectFormat(path), filepath.Base(path))
}

// hclManifest mirrors Requirements for gohcl decoding. Services are
// labeled blocks; the properties attribute stays an expression until
// ctyToNative converts it to a plain map.
type hclManifest struct {
	Name             string       `hcl:"name,optional"`
	Regions          []string     `hcl:"regions"`
	HAMode           string       `hcl:"ha_mode,optional"`
	Environment      string       `hcl:"environment,optional"`
	EdgeServices     []string     `hcl:"edge_services,optional"`
	IdentityServices []string     `hcl:"identity_services,optional"`
	Services         []hclService `hcl:"service,block"`
}

type hclService struct {
	Kind       string         `hcl:"kind,label"`
	Name       string         `hcl:"name,optional"`
	Properties hcl.Expression `hcl:"properties,optional"`
}

func loadHCL(data []byte, filename string) (*Requirements, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "parse HCL manifest: %s", diags.Error())
	}

	var m hclManifest
	if diags := gohcl.DecodeBody(file.Body, nil, &m); diags.HasErrors() {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "decode HCL manifest: %s", diags.Error())
	}

	req := Requirements{
		Name:             m.Name,
		Regions:          m.Regions,
		HAMode:           HAMode(m.HAMode),
		Environment:      m.Environment,
		EdgeServices:     m.EdgeServices,
		IdentityServices: m.IdentityServices,
	}
	for _, s := range m.Services {
		intent, err := s.toIntent()
		if err != nil {
			return nil, err
		}
		req.Services = append(req.Services, intent)
	}

	req.ApplyDefaults()
	req.Normalize()
	return &req, nil
}

func (s hclService) toIntent() (ServiceIntent, error) {
	intent := ServiceIntent{Kind: catalog.Kind(s.Kind), Name: s.Name}

	if s.Properties == nil {
		return intent, nil
	}
	val, diags := s.Properties.Value(nil)
	if diags.HasErrors() {
		return intent, errors.New(errors.ErrCodeInvalidManifest,
			"service %q: evaluate properties: %s", s.Kind, diags.Error())
	}
	if val.IsNull() {
		return intent, nil
	}

	native, err := ctyToNative(val)
	if err != nil {
		return intent, errors.Wrap(errors.ErrCodeInvalidManifest, err, "service %q properties", s.Kind)
	}
	props, ok := native.(map[string]any)
	if !ok {
		return intent, errors.New(errors.ErrCodeInvalidManifest,
			"service %q: properties must be an object", s.Kind)
	}
	intent.Properties = props
	return intent, nil
}

// ctyToNative converts a cty value to its natural Go counterpart.
// Numbers become float64, the common representation for generic
// property bags.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return f, nil
	case ty == cty.Bool:
		return v.True(), nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			nv, err := ctyToNative(ev)
			if err != nil {
				return nil, err
			}
			out = append(out, nv)
		}
		return out, nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		for it := v.ElementIterator(); it.Next(); {
			kv, ev := it.Element()
			nv, err := ctyToNative(ev)
			if err != nil {
				return nil, err
			}
			out[kv.AsString()] = nv
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported property type %s", ty.FriendlyName())
	}
}
