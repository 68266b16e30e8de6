package profile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mj1618/macropad/internal/model"
	"gopkg.in/yaml.v3"
)

// ParseStructured parses a JSON or YAML document mapping button ids to
// lists of {type: ..., fields} objects. JSON is decoded with the YAML
// parser, which accepts it and keeps line numbers for warnings.
//
// Unknown action types are kept as model.Unknown so that newer profiles
// still load; the executor skips them.
func ParseStructured(data []byte, f Format, opts Options) (*Result, error) {
	if f == FormatText {
		return nil, errors.New("structured parser called with text format")
	}
	if f == FormatJSON {
		if !json.Valid(data) {
			var v interface{}
			return nil, fmt.Errorf("parse json: %w", json.Unmarshal(data, &v))
		}
		// Raw tabs in valid JSON are always whitespace; YAML rejects them
		// as indentation.
		data = bytes.ReplaceAll(data, []byte("\t"), []byte(" "))
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", f, err)
	}

	res := newResult()
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return res, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse %s: line %d: expected a mapping of button ids to action lists", f, root.Line)
	}

	seen := make(map[model.ButtonID]bool)
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, listNode := root.Content[i], root.Content[i+1]

		id, err := model.ParseButtonID(keyNode.Value)
		if err != nil {
			res.warn(keyNode.Line, NoButton, keyNode.Value, err.Error())
			continue
		}
		if !opts.allowed(id) {
			res.warn(keyNode.Line, id, keyNode.Value, "button is not in the configured set")
			continue
		}
		if seen[id] {
			res.warn(keyNode.Line, id, keyNode.Value, "duplicate definition ignored")
			continue
		}
		seen[id] = true

		if listNode.Kind != yaml.SequenceNode {
			res.warn(listNode.Line, id, "", "expected a list of actions")
			continue
		}

		var actions model.ActionList
		for _, item := range listNode.Content {
			var params map[string]interface{}
			if err := item.Decode(&params); err != nil || params == nil {
				res.warn(item.Line, id, item.Value, "action must be an object with a type field")
				continue
			}
			parsed, err := parseStructuredAction(params)
			if err != nil {
				res.warn(item.Line, id, stringParam(params, "type", ""), err.Error())
				continue
			}
			actions = append(actions, parsed...)
		}
		if len(actions) == 0 {
			res.warn(keyNode.Line, id, "", "no usable actions, button left unmapped")
			continue
		}
		res.Profile[id] = actions
	}
	return res, nil
}

func parseStructuredAction(params map[string]interface{}) ([]model.Action, error) {
	typ := strings.ToLower(stringParam(params, "type", ""))
	switch model.Kind(typ) {
	case "":
		return nil, errors.New("missing type")

	case model.KindKey:
		name := stringParam(params, "key", "")
		if name == "" {
			return nil, errors.New("key action needs a key")
		}
		k, ok := model.LookupKey(name)
		if !ok {
			return nil, fmt.Errorf("unknown key %q", name)
		}
		return one(model.KeyPress{Key: k}), nil

	case model.KindKeyCombo:
		names, err := stringsParam(params, "keys")
		if err != nil {
			return nil, err
		}
		if len(names) == 0 {
			return nil, errors.New("key_combo action needs keys")
		}
		keys := make([]model.Key, 0, len(names))
		for _, name := range names {
			k, ok := model.LookupKey(name)
			if !ok {
				return nil, fmt.Errorf("unknown key %q", name)
			}
			keys = append(keys, k)
		}
		return one(model.KeyCombo{Keys: keys}), nil

	case model.KindTypeText:
		text := stringParam(params, "text", "")
		if text == "" {
			return nil, errors.New("type action needs text")
		}
		return one(model.TypeText{Text: text}), nil

	case model.KindMoveAbsolute, model.KindMoveRelative:
		if x, y, ok, err := pairParam(params, "x", "y"); err != nil {
			return nil, err
		} else if ok && typ == string(model.KindMoveAbsolute) {
			return one(model.MoveAbsolute{X: x, Y: y}), nil
		}
		dx, dy, ok, err := pairParam(params, "dx", "dy")
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%s action needs x,y or dx,dy", typ)
		}
		return one(model.MoveRelative{DX: dx, DY: dy}), nil

	case model.KindClick:
		btn, err := model.ParseMouseButton(stringParam(params, "button", "left"))
		if err != nil {
			return nil, err
		}
		x, y, ok, err := pairParam(params, "x", "y")
		if err != nil {
			return nil, err
		}
		if ok {
			return []model.Action{model.MoveAbsolute{X: x, Y: y}, model.Click{Button: btn}}, nil
		}
		return one(model.Click{Button: btn}), nil

	case model.KindScroll:
		clicks, _, err := intParam(params, "clicks", 1)
		if err != nil {
			return nil, err
		}
		return one(model.Scroll{Clicks: clicks}), nil

	case model.KindDelay:
		d, err := delayParam(params)
		if err != nil {
			return nil, err
		}
		return one(model.Delay{Duration: d}), nil

	default:
		return one(model.Unknown{Type: typ}), nil
	}
}

func one(a model.Action) []model.Action { return []model.Action{a} }

func stringParam(params map[string]interface{}, key, defaultVal string) string {
	if v, ok := params[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
		// YAML may decode single characters such as 1 as numbers.
		return fmt.Sprintf("%v", v)
	}
	return defaultVal
}

func stringsParam(params map[string]interface{}, key string) ([]string, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return nil, nil
	}
	list, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s must be a list", key)
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		} else {
			out = append(out, fmt.Sprintf("%v", item))
		}
	}
	return out, nil
}

// intParam returns the integer at key, whether it was present, and an
// error for non-integral values.
func intParam(params map[string]interface{}, key string, defaultVal int) (int, bool, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return defaultVal, false, nil
	}
	switch n := v.(type) {
	case int:
		return n, true, nil
	case int64:
		return int(n), true, nil
	case uint64:
		if n > math.MaxInt {
			return 0, true, fmt.Errorf("%s is out of range: %v", key, n)
		}
		return int(n), true, nil
	case float64:
		if n != math.Trunc(n) {
			return 0, true, fmt.Errorf("%s must be an integer, got %v", key, n)
		}
		// float64(math.MaxInt) rounds up to 2^63, which int cannot hold.
		if n < math.MinInt || n >= -float64(math.MinInt) {
			return 0, true, fmt.Errorf("%s is out of range: %v", key, n)
		}
		return int(n), true, nil
	}
	return 0, true, fmt.Errorf("%s must be an integer, got %v", key, v)
}

func floatParam(params map[string]interface{}, key string) (float64, bool, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	switch n := v.(type) {
	case int:
		return float64(n), true, nil
	case int64:
		return float64(n), true, nil
	case uint64:
		return float64(n), true, nil
	case float64:
		return n, true, nil
	}
	return 0, true, fmt.Errorf("%s must be a number, got %v", key, v)
}

// pairParam reads two coordinates that must appear together.
func pairParam(params map[string]interface{}, xKey, yKey string) (int, int, bool, error) {
	x, hasX, err := intParam(params, xKey, 0)
	if err != nil {
		return 0, 0, false, err
	}
	y, hasY, err := intParam(params, yKey, 0)
	if err != nil {
		return 0, 0, false, err
	}
	if hasX != hasY {
		return 0, 0, false, fmt.Errorf("%s and %s must be given together", xKey, yKey)
	}
	return x, y, hasX, nil
}

// maxDelay caps delays so their nanosecond count fits in a time.Duration.
const maxDelay = 24 * time.Hour

// delayParam reads "ms" (milliseconds), falling back to "duration"
// (seconds) and then to one second.
func delayParam(params map[string]interface{}) (time.Duration, error) {
	if ms, ok, err := intParam(params, "ms", 0); err != nil {
		return 0, err
	} else if ok {
		if ms < 0 {
			return 0, errors.New("negative delay")
		}
		if ms > int(maxDelay/time.Millisecond) {
			return 0, fmt.Errorf("delay of %dms is out of range", ms)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	secs, ok, err := floatParam(params, "duration")
	if err != nil {
		return 0, err
	}
	if !ok {
		return time.Second, nil
	}
	if secs < 0 {
		return 0, errors.New("negative delay")
	}
	if secs > maxDelay.Seconds() {
		return 0, fmt.Errorf("delay of %vs is out of range", secs)
	}
	return time.Duration(secs * float64(time.Second)), nil
}
