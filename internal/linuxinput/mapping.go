package linuxinput

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mj1618/macropad/internal/model"
)

// Mapping binds evdev key codes to macro pad button ids. Several codes may
// drive the same button.
type Mapping map[uint16]model.ButtonID

// ParseMapping parses CODE=ID pairs such as "KEY_KP7=7" or "0x2e=22".
func ParseMapping(specs []string) (Mapping, error) {
	m := make(Mapping, len(specs))
	for _, spec := range specs {
		codeStr, idStr, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, fmt.Errorf("invalid mapping %q: expected CODE=BUTTON", spec)
		}
		code, err := ParseCode(codeStr)
		if err != nil {
			return nil, fmt.Errorf("invalid mapping %q: %w", spec, err)
		}
		id, err := model.ParseButtonID(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid mapping %q: %w", spec, err)
		}
		if prev, dup := m[code]; dup && prev != id {
			return nil, fmt.Errorf("code %s mapped to both %d and %d", FormatCodeName(code), prev, id)
		}
		m[code] = id
	}
	return m, nil
}

// Buttons returns the distinct mapped button ids in ascending order.
func (m Mapping) Buttons() []model.ButtonID {
	seen := make(map[model.ButtonID]bool, len(m))
	ids := make([]model.ButtonID, 0, len(m))
	for _, id := range m {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Codes returns the mapped codes in ascending order.
func (m Mapping) Codes() []uint16 {
	codes := make([]uint16, 0, len(m))
	for c := range m {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}
