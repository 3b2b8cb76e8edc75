package parser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.weirdcat.su/weirdcat/valuegen/internal/config"
	"git.weirdcat.su/weirdcat/valuegen/internal/generator"
	"git.weirdcat.su/weirdcat/valuegen/internal/logger"
	"git.weirdcat.su/weirdcat/valuegen/internal/resolve"
	"git.weirdcat.su/weirdcat/valuegen/internal/types"
	"git.weirdcat.su/weirdcat/valuegen/internal/validator"
)

const (
	repoRoot     = "../.."
	modelsPath   = "git.weirdcat.su/weirdcat/valuegen/example/models"
	modelsSource = "./example/models"
)

func init() {
	logger.SetOutput(io.Discard)
}

func parseModels(t *testing.T) ([]*types.Request, validator.Diagnostics) {
	t.Helper()

	pkgs, err := LoadPackages(repoRoot, modelsSource)
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	return ParsePackage(pkgs[0], config.Default())
}

func TestParseExampleModels(t *testing.T) {
	requests, diags := parseModels(t)
	require.False(t, diags.HasErrors(), diags.Err())
	require.Len(t, requests, 3)

	product := requests[0]
	assert.Equal(t, "Product", product.TypeName)
	assert.Equal(t, modelsPath, product.Package.Path)
	assert.Equal(t, "models", product.Package.Name)
	assert.True(t, product.Parcelable)
	assert.Equal(t, &types.OutputMethod{Name: "Values"}, product.RowValues)
	assert.Nil(t, product.PreferenceWriter)

	require.Len(t, product.Properties, 4)
	assert.Equal(t, types.Basic("int64"), product.Properties[0].Type)
	assert.Equal(t, "name", product.Properties[1].Annotations.Column.Key)
	assert.Equal(t, types.PointerTo(types.Basic("int32")), product.Properties[3].Type)

	price := product.Properties[2]
	require.NotNil(t, price.Annotations.Adapter)
	require.NotNil(t, price.Annotations.Adapter.Type, "adapter Money should resolve")
	assert.Equal(t, types.Named(modelsPath, "Money"), price.Annotations.Adapter.Type.Type)

	require.Len(t, price.Annotations.Adapter.Type.Functions, 1, "only functions returning Money belong to it")
	assert.Equal(t, "MoneyFromRow", price.Annotations.Adapter.Type.Functions[0].Name)

	b, err := resolve.Adapter(price, true)
	require.NoError(t, err)
	assert.Equal(t, "MoneyFromRow", b.Factory.Name)
	assert.True(t, b.Factory.ReturnsError)
	require.NotNil(t, b.Serializer)
	assert.Equal(t, "Values", b.Serializer.Name)

	settings := requests[1]
	assert.Equal(t, "Settings", settings.TypeName)
	assert.False(t, settings.Parcelable)
	assert.Equal(t, &types.OutputMethod{Name: "Save", Mutating: true}, settings.PreferenceWriter)
	require.Len(t, settings.Properties, 6)
	assert.Equal(t, "true", settings.Properties[0].Annotations.Preference.DefaultValue)
	assert.Equal(t, "news,go", settings.Properties[5].Annotations.Preference.DefaultValue)
	assert.Equal(t, types.MapOf(types.Basic("string"), types.EmptyStruct()), settings.Properties[5].Type)

	reading := requests[2]
	require.Len(t, reading.Properties, 3)
	assert.Equal(t, types.Basic("int16"), reading.Properties[1].Type)
	assert.Equal(t, "delta", reading.Properties[1].Annotations.Column.Key)
	b, err = resolve.Adapter(reading.Properties[2], true)
	require.NoError(t, err)
	assert.Equal(t, "LabelFromRow", b.Factory.Name)
	assert.False(t, b.Factory.ReturnsError)
}

// The checked-in generated file must declare exactly what the generator
// emits for the example package today.
func TestExampleModelsAreUpToDate(t *testing.T) {
	requests, diags := parseModels(t)
	require.False(t, diags.HasErrors(), diags.Err())

	res := generator.Generate(requests[0].Package, requests, config.Default(), diags)
	require.False(t, res.Diagnostics.HasErrors(), res.Diagnostics.Err())
	assert.Equal(t, []string{"Product", "Settings", "Reading"}, res.Generated)

	checkedIn, err := os.ReadFile(filepath.Join(repoRoot, "example", "models", "valuegen_gen.go"))
	require.NoError(t, err)

	generated := fmt.Sprintf("%#v", res.File)
	assert.Equal(t, declarations(string(checkedIn)), declarations(generated))
}

func declarations(src string) []string {
	var out []string
	for _, line := range strings.Split(src, "\n") {
		if strings.HasPrefix(line, "func ") || strings.HasPrefix(line, "var ") {
			out = append(out, line)
		}
	}
	return out
}

func TestParseDiagnostics(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/bad\n\ngo 1.25\n"), 0o644))
	src := `package bad

//valuegen:serializable
type Broken struct {
	A int32 ` + "`valuegen:\"colum=a\"`" + `
}

type Plain struct {
	B int32
}

type Generic[T any] struct {
	V T ` + "`valuegen:\"column=v\"`" + `
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.go"), []byte(src), 0o644))

	pkgs, err := LoadPackages(dir)
	require.NoError(t, err)
	requests, diags := ParsePackage(pkgs[0], config.Default())

	assert.Empty(t, requests, "unannotated and generic types are not requests")
	require.Len(t, diags.Errors, 2)
	for _, e := range diags.Errors {
		assert.Equal(t, "Broken", e.Type)
		assert.Equal(t, validator.CodeInvalidTag, e.Code)
	}
}

func TestUnusedDirectivesWarn(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/unused\n\ngo 1.25\n"), 0o644))
	src := `package unused

//valuegen:values=Values
type Prefs struct {
	Theme string ` + "`valuegen:\"pref\"`" + `
}

//valuegen:prefs-writer=Save
type Row struct {
	ID int64 ` + "`valuegen:\"column=id\"`" + `
}

//valuegen:values-into=Fill
//valuegen:prefs-writer=Save
type Both struct {
	ID    int64  ` + "`valuegen:\"column=id\"`" + `
	Theme string ` + "`valuegen:\"pref\"`" + `
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unused.go"), []byte(src), 0o644))

	pkgs, err := LoadPackages(dir)
	require.NoError(t, err)
	requests, diags := ParsePackage(pkgs[0], config.Default())
	require.Len(t, requests, 3)
	assert.False(t, diags.HasErrors())

	tests := []struct {
		typeName string
		message  string
	}{
		{"Prefs", "Values is not generated"},
		{"Row", "Save is not generated"},
	}

	require.Len(t, diags.Warnings, len(tests))
	for i, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			w := diags.Warnings[i]
			assert.Equal(t, tt.typeName, w.Type)
			assert.Equal(t, validator.CodeUnusedDirective, w.Code)
			assert.Contains(t, w.Message, tt.message)
		})
	}
}

func TestAdapterFactoryBelongsToNamedAdapter(t *testing.T) {
	pkgs, err := LoadPackages(repoRoot, "./internal/parser/testdata/adapters")
	require.NoError(t, err)
	requests, diags := ParsePackage(pkgs[0], config.Default())
	require.False(t, diags.HasErrors(), diags.Err())
	require.Len(t, requests, 2)

	res := generator.Generate(requests[0].Package, requests, config.Default(), diags)
	assert.Equal(t, []string{"Label"}, res.Failed)
	assert.Equal(t, []string{"Thing"}, res.Generated)
	require.Len(t, res.Diagnostics.Errors, 1)
	assert.Equal(t, validator.CodeAdapterFactory, res.Diagnostics.Errors[0].Code)
	assert.Equal(t, "Name", res.Diagnostics.Errors[0].Property)

	out := fmt.Sprintf("%#v", res.File)
	assert.NotContains(t, out, "LowerFromRow")
	assert.Contains(t, out, "func newThing(kind_ kind, prev kind) *Thing {")
	assert.Contains(t, out, "kind_, err := parcel.ReadValue[kind](in, loader)")
	assert.Contains(t, out, "prev, err := parcel.ReadValue[kind](in, loader)")
}

func TestLoadExternalPackageResolvesFromDir(t *testing.T) {
	root, err := filepath.Abs(repoRoot)
	require.NoError(t, err)
	t.Chdir(t.TempDir())

	pkg, err := LoadExternalPackage(root, modelsPath)
	require.NoError(t, err)
	assert.Equal(t, "models", pkg.Name())
	assert.NotNil(t, pkg.Scope().Lookup("Money"))

	_, err = LoadExternalPackage(t.TempDir(), modelsPath)
	assert.Error(t, err)
}
