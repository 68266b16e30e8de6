package profile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mj1618/macropad/internal/model"
)

const screenDirective = "SCREEN_RESOLUTION"

// ParseText parses the line-oriented grammar:
//
//	# comment
//	SCREEN_RESOLUTION: 1920,1080
//	7: A
//	13: CONTROL, Z
//	22: MOUSE_MOVE_ABS(100,100), 50, L_CLICK
//
// Only read errors are returned; everything else becomes a Warning.
func ParseText(r io.Reader, opts Options) (*Result, error) {
	res := newResult()
	seen := make(map[model.ButtonID]bool)

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		head, tail, ok := strings.Cut(line, ":")
		if !ok {
			res.warn(lineNo, NoButton, line, "expected PIN: actions")
			continue
		}
		head = strings.TrimSpace(head)

		if strings.EqualFold(head, screenDirective) {
			scr, err := model.ParseScreen(strings.TrimSpace(tail))
			if err != nil {
				res.warn(lineNo, NoButton, strings.TrimSpace(tail), err.Error())
				continue
			}
			res.Screen = &scr
			continue
		}

		id, err := model.ParseButtonID(head)
		if err != nil {
			res.warn(lineNo, NoButton, head, err.Error())
			continue
		}
		if !opts.allowed(id) {
			res.warn(lineNo, id, head, "button is not in the configured set")
			continue
		}
		if seen[id] {
			res.warn(lineNo, id, head, "duplicate definition ignored")
			continue
		}
		seen[id] = true

		var actions model.ActionList
		for _, tok := range splitActions(tail) {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				res.warn(lineNo, id, tok, "empty action")
				continue
			}
			a, err := classifyToken(tok)
			if err != nil {
				res.warn(lineNo, id, tok, err.Error())
				continue
			}
			actions = append(actions, a)
		}
		if len(actions) == 0 {
			res.warn(lineNo, id, "", "no usable actions, button left unmapped")
			continue
		}
		res.Profile[id] = actions
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// splitActions splits s at commas that are not inside parentheses.
func splitActions(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

var errUnknownAction = errors.New("unknown key or action")

// classifyToken resolves one action token. The order matters: a bare
// integer is always a delay even though digits are also key names.
func classifyToken(tok string) (model.Action, error) {
	if n, err := strconv.Atoi(tok); err == nil {
		if n < 0 {
			return nil, fmt.Errorf("negative delay")
		}
		return model.Delay{Duration: time.Duration(n) * time.Millisecond}, nil
	}

	if open := strings.IndexByte(tok, '('); open > 0 {
		if !strings.HasSuffix(tok, ")") {
			return nil, fmt.Errorf("unbalanced parentheses")
		}
		return classifyCall(strings.ToUpper(strings.TrimSpace(tok[:open])), tok[open+1:len(tok)-1])
	}

	if strings.Contains(tok, "+") {
		parts := strings.Split(tok, "+")
		keys := make([]model.Key, 0, len(parts))
		for _, p := range parts {
			k, ok := model.LookupKey(p)
			if !ok {
				return nil, fmt.Errorf("unknown key %q in combination", strings.TrimSpace(p))
			}
			keys = append(keys, k)
		}
		return model.KeyCombo{Keys: keys}, nil
	}

	if b, ok := model.LookupClickToken(tok); ok {
		return model.Click{Button: b}, nil
	}
	if k, ok := model.LookupKey(tok); ok {
		return model.KeyPress{Key: k}, nil
	}
	return nil, errUnknownAction
}

func classifyCall(name, args string) (model.Action, error) {
	switch name {
	case "MOUSE_MOVE_ABS":
		x, y, err := parsePair(args)
		if err != nil {
			return nil, err
		}
		return model.MoveAbsolute{X: x, Y: y}, nil
	case "MOUSE_MOVE_REL":
		dx, dy, err := parsePair(args)
		if err != nil {
			return nil, err
		}
		return model.MoveRelative{DX: dx, DY: dy}, nil
	case "SCROLL":
		n, err := strconv.Atoi(strings.TrimSpace(args))
		if err != nil {
			return nil, fmt.Errorf("malformed scroll amount %q", args)
		}
		return model.Scroll{Clicks: n}, nil
	case "TYPE":
		if args == "" {
			return nil, fmt.Errorf("empty text")
		}
		return model.TypeText{Text: args}, nil
	case "DELAY":
		n, err := strconv.Atoi(strings.TrimSpace(args))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("malformed delay %q", args)
		}
		return model.Delay{Duration: time.Duration(n) * time.Millisecond}, nil
	default:
		return nil, errUnknownAction
	}
}

func parsePair(args string) (int, int, error) {
	a, b, ok := strings.Cut(args, ",")
	if !ok {
		return 0, 0, fmt.Errorf("malformed coordinate pair %q", args)
	}
	x, err1 := strconv.Atoi(strings.TrimSpace(a))
	y, err2 := strconv.Atoi(strings.TrimSpace(b))
	if err1 != nil || err2 != nil {
		return 0, 0, fmt.Errorf("malformed coordinate pair %q", args)
	}
	return x, y, nil
}
