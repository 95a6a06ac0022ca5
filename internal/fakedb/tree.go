package fakedb

import (
	"encoding/json"
	"errors"
	"strings"
)

// tree is a JSON document addressed by path segments. Objects are
// map[string]interface{}; empty objects and nulls are never stored, so a
// missing node and a null node are the same thing.
type tree struct {
	root interface{}
}

func splitPath(p string) []string {
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

func (t *tree) get(segs []string) interface{} {
	node := t.root
	for _, s := range segs {
		obj, ok := node.(map[string]interface{})
		if !ok {
			return nil
		}
		node = obj[s]
	}
	return node
}

func (t *tree) set(segs []string, value interface{}) {
	value = prune(value)
	if len(segs) == 0 {
		t.root = value
		return
	}

	obj, ok := t.root.(map[string]interface{})
	if !ok {
		obj = make(map[string]interface{})
	}
	t.root = setIn(obj, segs, value)
}

// setIn stores value below obj and returns obj, or nil if obj became empty.
func setIn(obj map[string]interface{}, segs []string, value interface{}) interface{} {
	key := segs[0]
	if len(segs) == 1 {
		if value == nil {
			delete(obj, key)
		} else {
			obj[key] = value
		}
	} else {
		child, ok := obj[key].(map[string]interface{})
		if !ok {
			child = make(map[string]interface{})
		}
		if next := setIn(child, segs[1:], value); next == nil {
			delete(obj, key)
		} else {
			obj[key] = next
		}
	}

	if len(obj) == 0 {
		return nil
	}
	return obj
}

// prune drops nulls and empty objects.
func prune(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		for k, child := range v {
			if p := prune(child); p == nil {
				delete(v, k)
			} else {
				v[k] = p
			}
		}
		if len(v) == 0 {
			return nil
		}
		return v
	case []interface{}:
		if len(v) == 0 {
			return nil
		}
		return v
	}
	return value
}

var errInvalidData = errors.New("invalid data; couldn't parse JSON object, array, or value")

func decode(data []byte) (interface{}, error) {
	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, errInvalidData
	}
	return value, nil
}
