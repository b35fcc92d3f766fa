package board

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the board's bindings.
type KeyMap struct {
	NextStrip key.Binding
	PrevStrip key.Binding
	Close     key.Binding
	Quit      key.Binding
}

// DefaultKeyMap is used unless the host replaces Model.Keys.
var DefaultKeyMap = KeyMap{
	NextStrip: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next strip"),
	),
	PrevStrip: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev strip"),
	),
	Close: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "close tab"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextStrip, k.PrevStrip, k.Close, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// Overrides maps snake_case binding names ("next_strip", "close") to keys.
// It is read from the "keys" section of tabs.yml.
type Overrides map[string][]string

// WithOverrides returns a copy of k with every named binding replaced. Help
// descriptions are kept; unknown names are ignored.
func (k KeyMap) WithOverrides(overrides Overrides) KeyMap {
	if len(overrides) == 0 {
		return k
	}

	v := reflect.ValueOf(&k).Elem()
	t := v.Type()
	bindingType := reflect.TypeOf(key.Binding{})

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if t.Field(i).Type != bindingType || !field.CanSet() {
			continue
		}
		keys, ok := overrides[snakeCase(t.Field(i).Name)]
		if !ok || len(keys) == 0 {
			continue
		}
		desc := field.Interface().(key.Binding).Help().Desc
		field.Set(reflect.ValueOf(key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(keys[0], desc),
		)))
	}
	return k
}

// snakeCase converts NextStrip to next_strip.
func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteRune('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
