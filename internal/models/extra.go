package models

import (
	"reflect"
	"strings"
	"sync"

	"github.com/goccy/go-json"
)

// Extra holds the keys of a submitted object that have no declared field.
// They are stored and returned as they came in.
type Extra map[string]any

var declaredKeys sync.Map // reflect.Type -> map[string]struct{}

func jsonKeys(t reflect.Type) map[string]struct{} {
	if cached, ok := declaredKeys.Load(t); ok {
		return cached.(map[string]struct{})
	}

	keys := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		keys[name] = struct{}{}
	}
	declaredKeys.Store(t, keys)
	return keys
}

// splitExtra returns the keys of the JSON object in data that t does not declare.
func splitExtra(data []byte, t reflect.Type) (Extra, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	declared := jsonKeys(t)
	var extra Extra
	for k, v := range raw {
		if _, ok := declared[k]; ok {
			continue
		}
		if extra == nil {
			extra = make(Extra)
		}
		extra[k] = v
	}
	return extra, nil
}

// mergeExtra adds extra to an encoded JSON object. Declared fields win on a clash.
func mergeExtra(encoded []byte, extra Extra) ([]byte, error) {
	if len(extra) == 0 {
		return encoded, nil
	}

	var out map[string]json.RawMessage
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, ok := out[k]; ok {
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		out[k] = b
	}
	return json.Marshal(out)
}
