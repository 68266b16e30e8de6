package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mj1618/macropad/internal/model"
	"gopkg.in/yaml.v3"
)

// structuredAction is the encoded form of one action. Field order fixes the
// key order in the output.
type structuredAction struct {
	Type   string   `yaml:"type"             json:"type"`
	Key    string   `yaml:"key,omitempty"    json:"key,omitempty"`
	Keys   []string `yaml:"keys,omitempty"   json:"keys,omitempty"`
	Text   string   `yaml:"text,omitempty"   json:"text,omitempty"`
	X      *int     `yaml:"x,omitempty"      json:"x,omitempty"`
	Y      *int     `yaml:"y,omitempty"      json:"y,omitempty"`
	DX     *int     `yaml:"dx,omitempty"     json:"dx,omitempty"`
	DY     *int     `yaml:"dy,omitempty"     json:"dy,omitempty"`
	Button string   `yaml:"button,omitempty" json:"button,omitempty"`
	Clicks *int     `yaml:"clicks,omitempty" json:"clicks,omitempty"`
	Ms     *int64   `yaml:"ms,omitempty"     json:"ms,omitempty"`
}

func intPtr(n int) *int { return &n }

func keyName(k model.Key) string { return strings.ToLower(k.String()) }

func toStructured(a model.Action) structuredAction {
	switch a := a.(type) {
	case model.KeyPress:
		return structuredAction{Type: string(model.KindKey), Key: keyName(a.Key)}
	case model.KeyCombo:
		keys := make([]string, len(a.Keys))
		for i, k := range a.Keys {
			keys[i] = keyName(k)
		}
		return structuredAction{Type: string(model.KindKeyCombo), Keys: keys}
	case model.TypeText:
		return structuredAction{Type: string(model.KindTypeText), Text: a.Text}
	case model.MoveAbsolute:
		return structuredAction{Type: string(model.KindMoveAbsolute), X: intPtr(a.X), Y: intPtr(a.Y)}
	case model.MoveRelative:
		return structuredAction{Type: string(model.KindMoveAbsolute), DX: intPtr(a.DX), DY: intPtr(a.DY)}
	case model.Click:
		return structuredAction{Type: string(model.KindClick), Button: a.Button.String()}
	case model.Scroll:
		return structuredAction{Type: string(model.KindScroll), Clicks: intPtr(a.Clicks)}
	case model.Delay:
		ms := a.Duration.Milliseconds()
		return structuredAction{Type: string(model.KindDelay), Ms: &ms}
	case model.Unknown:
		return structuredAction{Type: a.Type}
	}
	return structuredAction{Type: string(model.KindUnknown)}
}

// Encode renders p in format f with buttons in ascending order.
func Encode(p model.Profile, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return encodeJSON(p)
	case FormatYAML:
		return encodeYAML(p)
	default:
		return encodeText(p)
	}
}

func encodeJSON(p model.Profile) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, id := range p.Buttons() {
		list := make([]structuredAction, 0, len(p[id]))
		for _, a := range p[id] {
			list = append(list, toStructured(a))
		}
		data, err := json.MarshalIndent(list, "  ", "  ")
		if err != nil {
			return nil, err
		}
		if i > 0 {
			buf.WriteString(",")
		}
		fmt.Fprintf(&buf, "\n  %q: %s", id.String(), data)
	}
	buf.WriteString("\n}\n")
	return buf.Bytes(), nil
}

func encodeYAML(p model.Profile) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, id := range p.Buttons() {
		list := make([]structuredAction, 0, len(p[id]))
		for _, a := range p[id] {
			list = append(list, toStructured(a))
		}
		var val yaml.Node
		if err := val.Encode(list); err != nil {
			return nil, err
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: id.String()},
			&val,
		)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeText(p model.Profile) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# macropad profile: PIN: action, action, ...\n")
	for _, id := range p.Buttons() {
		tokens := make([]string, 0, len(p[id]))
		for _, a := range p[id] {
			tok, err := textToken(a)
			if err != nil {
				return nil, fmt.Errorf("button %d: %w", id, err)
			}
			if tok != "" {
				tokens = append(tokens, tok)
			}
		}
		if len(tokens) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "%d: %s\n", id, strings.Join(tokens, ", "))
	}
	return buf.Bytes(), nil
}

func textToken(a model.Action) (string, error) {
	switch a := a.(type) {
	case model.KeyPress:
		return a.Key.String(), nil
	case model.KeyCombo:
		names := make([]string, len(a.Keys))
		for i, k := range a.Keys {
			names[i] = k.String()
		}
		return strings.Join(names, "+"), nil
	case model.TypeText:
		if strings.ContainsAny(a.Text, "\n()") {
			return "", fmt.Errorf("text %q cannot be written in the text format", a.Text)
		}
		return "TYPE(" + a.Text + ")", nil
	case model.MoveAbsolute:
		return fmt.Sprintf("MOUSE_MOVE_ABS(%d,%d)", a.X, a.Y), nil
	case model.MoveRelative:
		return fmt.Sprintf("MOUSE_MOVE_REL(%d,%d)", a.DX, a.DY), nil
	case model.Click:
		return a.Button.TextName(), nil
	case model.Scroll:
		return fmt.Sprintf("SCROLL(%d)", a.Clicks), nil
	case model.Delay:
		return fmt.Sprintf("%d", a.Duration.Milliseconds()), nil
	}
	// Unknown actions have no text form.
	return "", nil
}
