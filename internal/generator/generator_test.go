package generator

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.weirdcat.su/weirdcat/valuegen/internal/config"
	"git.weirdcat.su/weirdcat/valuegen/internal/logger"
	"git.weirdcat.su/weirdcat/valuegen/internal/resolve"
	"git.weirdcat.su/weirdcat/valuegen/internal/types"
	"git.weirdcat.su/weirdcat/valuegen/internal/validator"
)

const testPkg = "example.com/app/models"

var testRef = types.PackageRef{Path: testPkg, Name: "models"}

func init() {
	logger.SetOutput(io.Discard)
}

func column(key string) types.Annotations {
	return types.Annotations{Column: &types.ColumnAnnotation{Key: key}}
}

func pref(key, def string) types.Annotations {
	return types.Annotations{Preference: &types.PreferenceAnnotation{Key: key, DefaultValue: def}}
}

func prop(name string, t types.TypeDescriptor, ann types.Annotations) types.Property {
	return types.Property{Name: name, Type: t, Annotations: ann}
}

func request(name string, props ...types.Property) *types.Request {
	return &types.Request{Package: testRef, TypeName: name, Properties: props}
}

func render(t *testing.T, res *Result) string {
	t.Helper()
	return fmt.Sprintf("%#v", res.File)
}

func moneyAdapter() *types.AdapterType {
	money := types.Named(testPkg, "Money")
	return &types.AdapterType{
		Type: money,
		Functions: []types.MethodSignature{
			{Name: "MoneyFromRow", Static: true, Params: []types.TypeDescriptor{resolve.RowType}, Result: money, ReturnsError: true},
		},
		Methods: []types.MethodSignature{
			{Name: "Values", Result: resolve.ValuesType},
		},
	}
}

func TestRowFactory(t *testing.T) {
	req := request("User",
		prop("AnInt", types.Basic("int32"), column("an_int")),
		prop("Name", types.PointerTo(types.Basic("string")), column("name")),
		prop("Note", types.Basic("string"), types.Annotations{}),
		prop("Data", types.SliceOf(types.Basic("byte")), column("data")),
	)

	res := Generate(testRef, []*types.Request{req}, config.Default(), validator.Diagnostics{})
	require.False(t, res.Diagnostics.HasErrors(), res.Diagnostics.Err())
	assert.Equal(t, []string{"User"}, res.Generated)

	out := render(t, res)
	assert.Contains(t, out, "// Code generated by valuegen. DO NOT EDIT.")
	assert.Contains(t, out, "//go:build !valuegen")
	assert.Contains(t, out, "package models")
	assert.Contains(t, out, `"git.weirdcat.su/weirdcat/valuegen/rowsource"`)
	assert.Contains(t, out, "func newUser(anInt int32, name *string, note string, data []byte) *User {")
	assert.Contains(t, out, "return &User{AnInt: anInt, Name: name, Note: note, Data: data}")
	assert.Contains(t, out, "func UserFromRow(row rowsource.Row) (*User, error) {")
	assert.Contains(t, out, `anInt, err := row.Int32("an_int")`)
	assert.Contains(t, out, `return nil, fmt.Errorf("reading column %q: %w", "an_int", err)`)
	assert.Contains(t, out, `name, err := rowsource.Nullable(row, "name", row.String)`)
	assert.Contains(t, out, "var note string")
	assert.Contains(t, out, `data, err := row.Blob("data")`)
	assert.Contains(t, out, "return newUser(anInt, name, note, data), nil")
	assert.NotContains(t, out, "rowsource.Values", "no serializer without a directive")

	assert.Less(t, strings.Index(out, "anInt, err :="), strings.Index(out, "name, err :="))
	assert.Less(t, strings.Index(out, "name, err :="), strings.Index(out, "var note string"))
	assert.Equal(t, 1, strings.Count(out, "func newUser("))
}

func TestRowValues(t *testing.T) {
	adapter := moneyAdapter()
	price := prop("Price", adapter.Type, types.Annotations{
		Adapter: &types.AdapterAnnotation{TypeName: "Money", Type: adapter},
	})

	additive := request("Item",
		prop("AnInt", types.Basic("int32"), column("an_int")),
		price,
		prop("Label", types.Basic("string"), column("label")),
	)
	additive.RowValues = &types.OutputMethod{Name: "ToValues"}

	res := Generate(testRef, []*types.Request{additive}, config.Default(), validator.Diagnostics{})
	require.False(t, res.Diagnostics.HasErrors(), res.Diagnostics.Err())

	out := render(t, res)
	assert.Contains(t, out, "price, err := MoneyFromRow(row)")
	assert.Contains(t, out, `return nil, fmt.Errorf("adapting Price: %w", err)`)
	assert.Contains(t, out, "func (x *Item) ToValues() rowsource.Values {")
	assert.Contains(t, out, "values := make(rowsource.Values, 2)")
	assert.Contains(t, out, `values.Put("an_int", x.AnInt)`)
	assert.Contains(t, out, "values.PutAll(x.Price.Values())")
	assert.Contains(t, out, `values.Put("label", x.Label)`)
	assert.Less(t, strings.Index(out, "values.PutAll"), strings.Index(out, `values.Put("label"`))

	mutating := request("Row",
		prop("AnInt", types.Basic("int32"), column("an_int")),
	)
	mutating.RowValues = &types.OutputMethod{Name: "Into", Mutating: true}

	out = render(t, Generate(testRef, []*types.Request{mutating}, config.Default(), validator.Diagnostics{}))
	assert.Contains(t, out, "func (x *Row) Into(values rowsource.Values) rowsource.Values {")
	assert.Contains(t, out, "if values == nil {")
	assert.Contains(t, out, "values = make(rowsource.Values, 1)")
	assert.Contains(t, out, "return values")
}

func TestExternalAdapter(t *testing.T) {
	money := types.Named("example.com/money", "Amount")
	adapter := &types.AdapterType{
		Type: money,
		Functions: []types.MethodSignature{
			{Name: "FromRow", Static: true, Params: []types.TypeDescriptor{resolve.RowType}, Result: money},
		},
		Methods: []types.MethodSignature{
			{Name: "Into", Params: []types.TypeDescriptor{resolve.ValuesType}, Result: resolve.ValuesType},
		},
	}
	req := request("Order", prop("Total", money, types.Annotations{
		Adapter: &types.AdapterAnnotation{TypeName: "money.Amount", Type: adapter},
	}))
	req.RowValues = &types.OutputMethod{Name: "ToValues"}

	res := Generate(testRef, []*types.Request{req}, config.Default(), validator.Diagnostics{})
	require.False(t, res.Diagnostics.HasErrors(), res.Diagnostics.Err())

	out := render(t, res)
	assert.Contains(t, out, `"example.com/money"`)
	assert.Contains(t, out, "total := money.FromRow(row)")
	assert.Contains(t, out, "func newOrder(total money.Amount) *Order {")
	assert.Contains(t, out, "values := make(rowsource.Values, 0)")
	assert.Contains(t, out, "x.Total.Into(values)")
}

func TestPreferences(t *testing.T) {
	req := request("Settings",
		prop("ABoolean", types.Basic("bool"), pref("a_boolean", "true")),
		prop("Count", types.PointerTo(types.Basic("int32")), pref("count", "")),
		prop("Limit", types.PointerTo(types.Basic("int64")), pref("limit", "10")),
		prop("Tags", types.MapOf(types.Basic("string"), types.EmptyStruct()), pref("tags", "")),
		prop("Ratio", types.Basic("float32"), pref("ratio", "0.5")),
		prop("Title", types.Basic("string"), pref("title", "")),
		prop("Skipped", types.Basic("int"), types.Annotations{}),
	)
	req.PreferenceWriter = &types.OutputMethod{Name: "Save", Mutating: true}

	res := Generate(testRef, []*types.Request{req}, config.Default(), validator.Diagnostics{})
	require.False(t, res.Diagnostics.HasErrors(), res.Diagnostics.Err())

	out := render(t, res)
	assert.Contains(t, out, "func SettingsFromPreferences(p prefs.Store) *Settings {")
	assert.Contains(t, out, `aBoolean := p.Bool("a_boolean", true)`)
	assert.Contains(t, out, `count := prefs.Nullable(p, "count", p.Int32)`)
	assert.Contains(t, out, `limit := prefs.NullableOr(p, "limit", p.Int64, 10)`)
	assert.Contains(t, out, `tags := p.StringSet("tags", nil)`)
	assert.Contains(t, out, `ratio := p.Float32("ratio", 0.5)`)
	assert.Contains(t, out, `title := p.String("title", "")`)
	assert.Contains(t, out, "var skipped int")
	assert.Contains(t, out, "return newSettings(aBoolean, count, limit, tags, ratio, title, skipped)")

	assert.Contains(t, out, "func (x *Settings) Save(e prefs.Editor) {")
	assert.Contains(t, out, `e.PutBool("a_boolean", x.ABoolean)`)
	assert.Contains(t, out, "if x.Count != nil {")
	assert.Contains(t, out, `e.PutInt32("count", *x.Count)`)
	assert.Contains(t, out, `e.Remove("count")`)
	assert.Contains(t, out, `e.PutStringSet("tags", x.Tags)`)
	assert.NotContains(t, out, "x.Skipped")
	assert.NotContains(t, out, "FromRow", "row concern is not applicable")
}

func TestPreferenceSetDefault(t *testing.T) {
	req := request("Filter",
		prop("Tags", types.MapOf(types.Basic("string"), types.EmptyStruct()), pref("tags", "b,a")),
	)
	out := render(t, Generate(testRef, []*types.Request{req}, config.Default(), validator.Diagnostics{}))
	assert.Contains(t, out, `tags := p.StringSet("tags", prefs.Set("a", "b"))`)
}

func TestParcel(t *testing.T) {
	req := request("Point",
		prop("X", types.Basic("int32"), types.Annotations{}),
		prop("Label", types.PointerTo(types.Basic("string")), types.Annotations{}),
	)
	req.Parcelable = true
	empty := request("Marker")
	empty.Parcelable = true

	res := Generate(testRef, []*types.Request{req, empty}, config.Default(), validator.Diagnostics{})
	require.False(t, res.Diagnostics.HasErrors())
	assert.Equal(t, []string{"Point", "Marker"}, res.Generated)

	out := render(t, res)
	assert.Contains(t, out, "func (x *Point) DescribeContents() int {")
	assert.Contains(t, out, "return 0")
	assert.Contains(t, out, "func (x *Point) WriteToParcel(dest *parcel.Parcel, flags int) error {")
	assert.Contains(t, out, "if err := dest.WriteValue(x.X); err != nil {")
	assert.Contains(t, out, `return fmt.Errorf("writing X: %w", err)`)
	assert.Contains(t, out, "if err := dest.WriteValue(x.Label); err != nil {")
	assert.Contains(t, out, "var PointCreator = parcel.Creator[*Point]{")
	assert.Contains(t, out, "func(in *parcel.Parcel) (*Point, error) {")
	assert.Contains(t, out, "loader := parcel.DefaultLoader")
	assert.Contains(t, out, "x, err := parcel.ReadValue[int32](in, loader)")
	assert.Contains(t, out, "label, err := parcel.ReadValue[*string](in, loader)")
	assert.Contains(t, out, "return newPoint(x, label), nil")
	assert.Contains(t, out, "func(size int) []*Point {")
	assert.Contains(t, out, "return make([]*Point, size)")

	assert.Contains(t, out, "func newMarker() *Marker {")
	assert.Contains(t, out, "return &Marker{}")
	assert.Contains(t, out, "return newMarker(), nil")

	assert.Contains(t, out, "func init() {")
	assert.Contains(t, out, "parcel.Register(PointCreator)")
	assert.Contains(t, out, "parcel.Register(MarkerCreator)")
	assert.Equal(t, 1, strings.Count(out, "loader := parcel.DefaultLoader"))
}

func TestAllConcernsShareConstructor(t *testing.T) {
	req := request("Profile",
		prop("Age", types.Basic("int32"), types.Annotations{
			Column:     &types.ColumnAnnotation{Key: "age"},
			Preference: &types.PreferenceAnnotation{Key: "age"},
		}),
	)
	req.Parcelable = true

	out := render(t, Generate(testRef, []*types.Request{req}, config.Default(), validator.Diagnostics{}))
	assert.Equal(t, 1, strings.Count(out, "func newProfile("))
	assert.Contains(t, out, "func ProfileFromRow(")
	assert.Contains(t, out, "func ProfileFromPreferences(")
	assert.Contains(t, out, `age := p.Int32("age", 0)`)
	assert.Contains(t, out, "var ProfileCreator")
	assert.Less(t, strings.Index(out, "FromRow("), strings.Index(out, "FromPreferences("))
	assert.Less(t, strings.Index(out, "FromPreferences("), strings.Index(out, "ProfileCreator"))
}

func TestRequestFatalErrors(t *testing.T) {
	bad := request("Bad",
		prop("Flag", types.Basic("bool"), column("flag")),
		prop("Count", types.Basic("int32"), pref("count", "many")),
		prop("Price", types.Named(testPkg, "Money"), types.Annotations{
			Adapter: &types.AdapterAnnotation{TypeName: "Money", Type: &types.AdapterType{Type: types.Named(testPkg, "Money")}},
		}),
	)
	good := request("Good", prop("AnInt", types.Basic("int32"), column("an_int")))

	res := Generate(testRef, []*types.Request{bad, good}, config.Default(), validator.Diagnostics{})

	assert.Equal(t, []string{"Bad"}, res.Failed)
	assert.Equal(t, []string{"Good"}, res.Generated)
	require.Len(t, res.Diagnostics.Errors, 3)

	codes := map[string]string{}
	for _, e := range res.Diagnostics.Errors {
		codes[e.Property] = e.Code
		assert.Equal(t, "Bad", e.Type)
	}
	assert.Equal(t, validator.CodeUnsupportedType, codes["Flag"])
	assert.Equal(t, validator.CodeInvalidDefault, codes["Count"])
	assert.Equal(t, validator.CodeAdapterFactory, codes["Price"])
	assert.Equal(t, "row", res.Diagnostics.Errors[0].Concern)

	out := render(t, res)
	assert.NotContains(t, out, "Bad")
	assert.Contains(t, out, "func GoodFromRow(")
}

func TestPriorErrorsSuppressRequest(t *testing.T) {
	req := request("User", prop("AnInt", types.Basic("int32"), column("an_int")))
	prior := validator.Diagnostics{}
	prior.Errorf("User", "AnInt", validator.CodeInvalidTag, "bad tag")

	res := Generate(testRef, []*types.Request{req}, config.Default(), prior)
	assert.True(t, res.Empty())
	assert.Equal(t, []string{"User"}, res.Failed)
}

func TestDisabledConcern(t *testing.T) {
	cfg := config.Default()
	cfg.Disabled = []string{config.ConcernParcel}

	req := request("Point", prop("X", types.Basic("int32"), types.Annotations{}))
	req.Parcelable = true

	res := Generate(testRef, []*types.Request{req}, cfg, validator.Diagnostics{})
	assert.True(t, res.Empty())
	assert.Equal(t, []string{"Point"}, res.Skipped)
	assert.Len(t, Synthesizers(cfg), 2)
}

func TestCustomNaming(t *testing.T) {
	cfg := config.Default()
	cfg.Naming.Constructor = "make%s"
	cfg.Naming.RowFactory = "Scan%s"

	req := request("User", prop("AnInt", types.Basic("int32"), column("an_int")))
	out := render(t, Generate(testRef, []*types.Request{req}, cfg, validator.Diagnostics{}))
	assert.Contains(t, out, "func makeUser(anInt int32) *User {")
	assert.Contains(t, out, "func ScanUser(row rowsource.Row) (*User, error) {")
	assert.Contains(t, out, "return makeUser(anInt), nil")
}

func TestNonFiniteFloatDefault(t *testing.T) {
	for _, literal := range []string{"NaN", "Inf", "-Inf", "+Inf"} {
		t.Run(literal, func(t *testing.T) {
			req := request("Gauge", prop("Ratio", types.Basic("float32"), pref("ratio", literal)))

			res := Generate(testRef, []*types.Request{req}, config.Default(), validator.Diagnostics{})
			assert.Equal(t, []string{"Gauge"}, res.Failed)
			require.Len(t, res.Diagnostics.Errors, 1)
			assert.Equal(t, validator.CodeInvalidDefault, res.Diagnostics.Errors[0].Code)
			assert.Equal(t, "Ratio", res.Diagnostics.Errors[0].Property)

			out := render(t, res)
			assert.NotContains(t, out, "Gauge")
			assert.NotContains(t, out, "PANIC")
		})
	}
}

func TestPreferenceEmptyDefaults(t *testing.T) {
	tests := []struct {
		name     string
		typ      types.TypeDescriptor
		expected string
	}{
		{"bool", types.Basic("bool"), `v := p.Bool("v", false)`},
		{"int32", types.Basic("int32"), `v := p.Int32("v", 0)`},
		{"int64", types.Basic("int64"), `v := p.Int64("v", 0)`},
		{"float32", types.Basic("float32"), `v := p.Float32("v", 0.0)`},
		{"string", types.Basic("string"), `v := p.String("v", "")`},
		{"string set", types.MapOf(types.Basic("string"), types.EmptyStruct()), `v := p.StringSet("v", nil)`},
		{"boxed bool", types.PointerTo(types.Basic("bool")), `v := prefs.Nullable(p, "v", p.Bool)`},
		{"boxed int32", types.PointerTo(types.Basic("int32")), `v := prefs.Nullable(p, "v", p.Int32)`},
		{"boxed int64", types.PointerTo(types.Basic("int64")), `v := prefs.Nullable(p, "v", p.Int64)`},
		{"boxed float32", types.PointerTo(types.Basic("float32")), `v := prefs.Nullable(p, "v", p.Float32)`},
		{"boxed string", types.PointerTo(types.Basic("string")), `v := prefs.Nullable(p, "v", p.String)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request("Holder", prop("V", tt.typ, pref("v", "")))

			res := Generate(testRef, []*types.Request{req}, config.Default(), validator.Diagnostics{})
			require.False(t, res.Diagnostics.HasErrors(), res.Diagnostics.Err())
			assert.Contains(t, render(t, res), tt.expected)
		})
	}
}

func permutations(props []types.Property) [][]types.Property {
	if len(props) <= 1 {
		return [][]types.Property{props}
	}
	var out [][]types.Property
	for i := range props {
		rest := make([]types.Property, 0, len(props)-1)
		rest = append(rest, props[:i]...)
		rest = append(rest, props[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]types.Property{props[i]}, p...))
		}
	}
	return out
}

func TestPropertyOrderIsPreserved(t *testing.T) {
	props := []types.Property{
		prop("Alpha", types.Basic("int32"), column("alpha")),
		prop("Beta", types.Basic("string"), pref("beta", "b")),
		prop("Gamma", types.Basic("int64"), types.Annotations{}),
		prop("Delta", types.PointerTo(types.Basic("string")), column("delta")),
	}
	local := map[string]string{"Alpha": "alpha", "Beta": "beta", "Gamma": "gamma", "Delta": "delta"}
	typeOf := map[string]string{"Alpha": "int32", "Beta": "string", "Gamma": "int64", "Delta": "*string"}

	perms := permutations(props)
	require.Len(t, perms, 24)

	for _, order := range perms {
		var names, params, locals []string
		for _, p := range order {
			names = append(names, p.Name)
			params = append(params, local[p.Name]+" "+typeOf[p.Name])
			locals = append(locals, local[p.Name])
		}

		t.Run(strings.Join(names, "_"), func(t *testing.T) {
			req := request("Mixed", order...)
			req.Parcelable = true

			res := Generate(testRef, []*types.Request{req}, config.Default(), validator.Diagnostics{})
			require.False(t, res.Diagnostics.HasErrors(), res.Diagnostics.Err())
			out := render(t, res)

			args := strings.Join(locals, ", ")
			assert.Contains(t, out, "func newMixed("+strings.Join(params, ", ")+") *Mixed {")
			assert.Contains(t, out, "return newMixed("+args+"), nil")
			assert.Contains(t, out, "return newMixed("+args+")\n")

			writes := make([]int, len(names))
			for i, n := range names {
				writes[i] = strings.Index(out, "dest.WriteValue(x."+n+")")
				require.GreaterOrEqual(t, writes[i], 0, n)
			}
			assert.IsIncreasing(t, writes)
		})
	}
}
