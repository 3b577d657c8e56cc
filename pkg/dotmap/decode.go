package dotmap

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// TagName is the struct tag that names record fields.
const TagName = "toml"

var unusedKeyReplacer = strings.NewReplacer("[", ".", "]", "")

// Decode decodes a raw tree into out, which must be a pointer. Fields that
// are missing from input keep their current value. It returns the dotted
// paths of input keys that matched no declared field, sorted.
func Decode(input any, out any) ([]string, error) {
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    TagName,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			wholeNumberHookFunc(),
		),
		Metadata:   &md,
		Result:     out,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(input); err != nil {
		return nil, err
	}
	if len(md.Unused) == 0 {
		return nil, nil
	}
	unused := make([]string, len(md.Unused))
	for i, k := range md.Unused {
		// mapstructure reports map members as "variables[fnr].unit"
		unused[i] = unusedKeyReplacer.Replace(k)
	}
	sort.Strings(unused)
	return unused, nil
}

// wholeNumberHookFunc rejects floats with a fractional part bound for an
// integer field. mapstructure would truncate them.
func wholeNumberHookFunc() mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.Float32 && from.Kind() != reflect.Float64 {
			return data, nil
		}
		switch to.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		default:
			return data, nil
		}
		f := reflect.ValueOf(data).Float()
		if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("expected a whole number, got %v", data)
		}
		return data, nil
	}
}

// DecodeValue decodes input into a fresh value of type typ.
func DecodeValue(input any, typ reflect.Type) (reflect.Value, error) {
	ptr := reflect.New(typ)
	if _, err := Decode(input, ptr.Interface()); err != nil {
		return reflect.Value{}, err
	}
	return ptr.Elem(), nil
}
