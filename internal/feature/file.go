package feature

import (
	"fmt"
	"runtime"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// hclManifestFile represents the top-level structure of a capability
// manifest file for decoding.
type hclManifestFile struct {
	Flags []*hclFlagBlock `hcl:"flag,block"`
}

type hclFlagBlock struct {
	Name      string   `hcl:"name,label"`
	Implies   []string `hcl:"implies,optional"`
	Conflicts []string `hcl:"conflicts,optional"`
	Default   bool     `hcl:"default,optional"`
}

// platformContext exposes platform facts to manifest expressions, so a file
// can declare platform defaults like `default = os == "linux"`.
func platformContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"os":   cty.StringVal(runtime.GOOS),
			"arch": cty.StringVal(runtime.GOARCH),
		},
	}
}

// LoadManifest parses an HCL capability manifest file:
//
//	flag "truecolor" {
//	  implies = ["color-256"]
//	  default = true
//	}
//
// The result passes the same validation as the built-in manifest.
func LoadManifest(path string) (Manifest, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return Manifest{}, fmt.Errorf("failed to parse capability manifest %s: %w", path, diags)
	}

	var parsed hclManifestFile
	diags = gohcl.DecodeBody(hclFile.Body, platformContext(), &parsed)
	if diags.HasErrors() {
		return Manifest{}, fmt.Errorf("failed to decode capability manifest %s: %w", path, diags)
	}

	decls := make([]Declaration, 0, len(parsed.Flags))
	for _, block := range parsed.Flags {
		decl, err := declarationFromBlock(block)
		if err != nil {
			return Manifest{}, fmt.Errorf("invalid flag block in %s: %w", path, err)
		}
		decls = append(decls, decl)
	}

	m, err := NewManifest(decls...)
	if err != nil {
		return Manifest{}, fmt.Errorf("invalid capability manifest %s: %w", path, err)
	}
	return m, nil
}

func declarationFromBlock(block *hclFlagBlock) (Declaration, error) {
	f, err := NewFlag(block.Name)
	if err != nil {
		return Declaration{}, err
	}
	implies, err := ParseFlags(block.Implies)
	if err != nil {
		return Declaration{}, fmt.Errorf("flag %q implies: %w", block.Name, err)
	}
	conflicts, err := ParseFlags(block.Conflicts)
	if err != nil {
		return Declaration{}, fmt.Errorf("flag %q conflicts: %w", block.Name, err)
	}
	return Declaration{
		Flag:      f,
		Implies:   implies,
		Conflicts: conflicts,
		Default:   block.Default,
	}, nil
}
