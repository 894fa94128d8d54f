package value

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Stringify implements JSON.stringify's contract from spec §4.2: toJSON
// delegation, a replacer (function or allow-list), space-based
// indentation capped at 10, and a thrown error for BigInt. Grounded on
// the gjson/sjson/pretty trio (all indirect deps of escalier's go.mod,
// adopted directly rather than round-tripping through encoding/json,
// since spec's JSON semantics diverge from Go's struct-tag marshaling in
// ways gjson's path-based API models far more directly: arbitrary
// replacer functions per key and key-order-preserving object construction).
func Stringify(v Value, replacer Replacer, space int) (string, error) {
	if space > 10 {
		space = 10
	}
	raw, err := stringifyValue(v, "", replacer)
	if err != nil {
		return "", err
	}
	if raw == "" {
		return "", nil // undefined/function at the top level stringifies to no value
	}
	if space > 0 {
		opts := *pretty.DefaultOptions
		opts.Indent = spaces(space)
		return string(pretty.PrettyOptions([]byte(raw), &opts)), nil
	}
	return raw, nil
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

// Replacer mirrors JSON.stringify's second argument: either a per-key
// transform function or an allow-list of keys to keep (object properties
// not in Keys are omitted; Keys nil means "keep everything").
type Replacer struct {
	Func func(key string, v Value) (Value, bool) // bool: keep this property
	Keys map[string]bool
}

func stringifyValue(v Value, key string, r Replacer) (string, error) {
	if r.Func != nil {
		replaced, keep := r.Func(key, v)
		if !keep {
			return "", nil
		}
		v = replaced
	}
	switch v.Tag {
	case TagUndefined:
		return "", nil
	case TagFunction, TagSymbol:
		return "", nil
	case TagNull:
		return "null", nil
	case TagBoolean:
		if v.Num != 0 {
			return "true", nil
		}
		return "false", nil
	case TagNumber:
		return fmt.Sprintf("%v", v.Num), nil
	case TagString:
		s, _ := v.AsString()
		encoded, err := sjson.Set("", "v", s)
		if err != nil {
			return "", err
		}
		return gjson.Get(encoded, "v").Raw, nil
	case TagBigInt:
		return "", fmt.Errorf("TypeError: Do not know how to serialize a BigInt")
	case TagArray:
		return stringifyArray(v.Obj.(*Array), r)
	case TagObject:
		return stringifyRecord(v.Obj.(*Record), r)
	case TagInstance:
		return stringifyInstance(v.Obj.(*Instance), r)
	case TagMap, TagSet:
		return "{}", nil // Map/Set have no own enumerable properties, same as JSON.stringify
	default:
		return "null", nil
	}
}

func stringifyArray(arr *Array, r Replacer) (string, error) {
	out := "[]"
	for i, el := range arr.Elems {
		encoded, err := stringifyValue(el, fmt.Sprint(i), r)
		if err != nil {
			return "", err
		}
		if encoded == "" {
			encoded = "null" // array holes/undefined elements serialize as null, unlike object properties
		}
		out, err = sjson.SetRaw(out, fmt.Sprintf("%d", i), encoded)
		if err != nil {
			return "", err
		}
	}
	return out, nil
}

func stringifyRecord(rec *Record, r Replacer) (string, error) {
	out := "{}"
	for _, k := range rec.Keys() {
		if r.Keys != nil && !r.Keys[k] {
			continue
		}
		val, _ := rec.Get(k)
		encoded, err := stringifyValue(val, k, r)
		if err != nil {
			return "", err
		}
		if encoded == "" {
			continue
		}
		out, err = sjson.SetRaw(out, escapeSjsonPath(k), encoded)
		if err != nil {
			return "", err
		}
	}
	return out, nil
}

func stringifyInstance(inst *Instance, r Replacer) (string, error) {
	if toJSON, ok := getAccessor(inst, "toJSON"); ok && toJSON.Get != nil {
		result, err := Call(toJSON.Get, Value{Tag: TagInstance, Obj: inst}, nil)
		if err != nil {
			return "", err
		}
		return stringifyValue(result, "", r)
	}
	return stringifyRecord(inst.Fields, r)
}

// escapeSjsonPath escapes sjson's path metacharacters (".", "*", "?") in a
// plain object key so arbitrary JS property names round-trip safely.
func escapeSjsonPath(key string) string {
	out := make([]byte, 0, len(key))
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case '.', '*', '?':
			out = append(out, '\\')
		}
		out = append(out, key[i])
	}
	return string(out)
}

// Parse implements JSON.parse, with an optional reviver walked bottom-up
// over the decoded tree exactly as JSON.parse requires.
func Parse(jsonText string, reviver func(key string, v Value) Value) (Value, error) {
	if !gjson.Valid(jsonText) {
		return Undefined, fmt.Errorf("SyntaxError: Unexpected token in JSON")
	}
	parsed := gjson.Parse(jsonText)
	v := fromGJSON(parsed)
	if reviver != nil {
		v = reviveValue("", v, reviver)
	}
	return v, nil
}

func fromGJSON(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Null
	case gjson.False:
		return False
	case gjson.True:
		return True
	case gjson.Number:
		return Number(r.Num)
	case gjson.String:
		return String(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			arr := NewArray()
			r.ForEach(func(_, val gjson.Result) bool {
				arr.Elems = append(arr.Elems, fromGJSON(val))
				return true
			})
			return Value{Tag: TagArray, Obj: arr}
		}
		rec := NewRecord()
		r.ForEach(func(key, val gjson.Result) bool {
			rec.Set(key.Str, fromGJSON(val))
			return true
		})
		return Value{Tag: TagObject, Obj: rec}
	default:
		return Undefined
	}
}

func reviveValue(key string, v Value, reviver func(string, Value) Value) Value {
	switch v.Tag {
	case TagArray:
		arr := v.Obj.(*Array)
		for i := range arr.Elems {
			arr.Elems[i] = reviveValue(fmt.Sprint(i), arr.Elems[i], reviver)
		}
	case TagObject:
		rec := v.Obj.(*Record)
		for _, k := range rec.Keys() {
			val, _ := rec.Get(k)
			rec.Set(k, reviveValue(k, val, reviver))
		}
	}
	return reviver(key, v)
}
