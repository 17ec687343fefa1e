// Package keys provides configurable key bindings.
//
// Bindings are plain data so they can be read from configuration, and are
// converted to [key.Binding]s for matching and help rendering with
// [github.com/charmbracelet/bubbles].
package keys

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

var ErrDuplicateBind = errors.New("duplicate key binding")

// Key represents a keyboard key with optional alias and visibility settings.
type Key struct {
	// Code is the key code identifier, e.g. "left" or "ctrl+c".
	Code string `json:"code" jsonschema:"title=Code"`
	// Alias is an alternative display name for the key.
	Alias string `json:"alias,omitempty" jsonschema:"title=Alias"`
	// Hidden determines if the key should be hidden from help.
	Hidden bool `json:"hidden,omitempty" jsonschema:"title=Hidden"`
}

type KeyOpt func(k *Key)

func New(code string, opts ...KeyOpt) Key {
	k := &Key{
		Code: code,
	}
	for _, opt := range opts {
		opt(k)
	}

	return *k
}

func WithAlias(alias string) KeyOpt {
	return func(k *Key) {
		k.Alias = alias
	}
}

func Hidden() KeyOpt {
	return func(k *Key) {
		k.Hidden = true
	}
}

func (k Key) String() string {
	if k.Alias != "" {
		return k.Alias
	}

	return k.Code
}

// KeyBind represents a key binding with its description and associated keys.
type KeyBind struct {
	// Description provides a description of what the key binding does.
	Description string `json:"description" jsonschema:"title=Description"`
	// Keys contains the list of keys that trigger this binding.
	Keys []Key `json:"keys" jsonschema:"title=Keys"`
}

func NewBind(description string, keys ...Key) KeyBind {
	return KeyBind{
		Description: description,
		Keys:        keys,
	}
}

// String returns the visible keys joined with "/".
func (kb *KeyBind) String() string {
	keys := []string{}
	for _, k := range kb.Keys {
		if k.Hidden {
			continue
		}

		keys = append(keys, k.String())
	}

	return strings.Join(keys, "/")
}

// Match checks if the key matches any of the keys in the binding.
func (kb *KeyBind) Match(key string) bool {
	for _, k := range kb.Keys {
		if k.Code == key {
			return true
		}
	}

	return false
}

// BubbleKey converts the binding to a [key.Binding]. A binding whose keys
// are all hidden is left out of help.
func (kb *KeyBind) BubbleKey() key.Binding {
	codes := make([]string, 0, len(kb.Keys))
	for _, k := range kb.Keys {
		codes = append(codes, k.Code)
	}

	opts := []key.BindingOpt{key.WithKeys(codes...)}
	if help := kb.String(); help != "" {
		opts = append(opts, key.WithHelp(help, kb.Description))
	}

	return key.NewBinding(opts...)
}

// ValidateBinds returns an error for every key code bound more than once.
func ValidateBinds(kbs ...*KeyBind) error {
	var errs []error

	seen := make(map[string]string)
	for _, kb := range kbs {
		if kb == nil {
			continue
		}

		for _, k := range kb.Keys {
			if other, ok := seen[k.Code]; ok {
				errs = append(errs, fmt.Errorf("%w: %q used by %q and %q",
					ErrDuplicateBind, k.Code, other, kb.Description))

				continue
			}

			seen[k.Code] = kb.Description
		}
	}

	return errors.Join(errs...)
}

func SetDefaultBind(kb **KeyBind, defaultKb KeyBind) {
	if *kb == nil {
		*kb = &defaultKb

		return
	}

	if len((*kb).Keys) == 0 {
		(*kb).Keys = defaultKb.Keys
	}

	if (*kb).Description == "" {
		(*kb).Description = defaultKb.Description
	}
}

// Help adapts key binds to [github.com/charmbracelet/bubbles/help.KeyMap].
type Help struct {
	short []*KeyBind
	full  [][]*KeyBind
}

// NewHelp creates a [Help] showing short in the short view. Each column is
// a column of the full view.
func NewHelp(short []*KeyBind, columns ...[]*KeyBind) Help {
	return Help{short: short, full: columns}
}

// ShortHelp implements help.KeyMap.
func (h Help) ShortHelp() []key.Binding {
	return bubbleKeys(h.short)
}

// FullHelp implements help.KeyMap.
func (h Help) FullHelp() [][]key.Binding {
	out := make([][]key.Binding, 0, len(h.full))
	for _, col := range h.full {
		out = append(out, bubbleKeys(col))
	}

	return out
}

func bubbleKeys(kbs []*KeyBind) []key.Binding {
	out := make([]key.Binding, 0, len(kbs))
	for _, kb := range kbs {
		out = append(out, kb.BubbleKey())
	}

	return out
}
