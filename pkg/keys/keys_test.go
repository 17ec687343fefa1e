package keys_test

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/pagelegend/pkg/keys"
)

func TestKey_String(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		key  keys.Key
		want string
	}{
		"code": {
			key:  keys.New("left"),
			want: "left",
		},
		"alias": {
			key:  keys.New("left", keys.WithAlias("←")),
			want: "←",
		},
		"hidden keeps string": {
			key:  keys.New("h", keys.Hidden()),
			want: "h",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.key.String())
		})
	}
}

func TestKeyBind_String(t *testing.T) {
	t.Parallel()

	kb := keys.NewBind("previous page",
		keys.New("left", keys.WithAlias("←")),
		keys.New("h", keys.Hidden()),
		keys.New("pgup"),
	)

	assert.Equal(t, "←/pgup", kb.String())
	assert.True(t, kb.Match("h"))
	assert.False(t, kb.Match("l"))
}

func TestKeyBind_BubbleKey(t *testing.T) {
	t.Parallel()

	kb := keys.NewBind("next page", keys.New("right", keys.WithAlias("→")), keys.New("l", keys.Hidden()))
	b := kb.BubbleKey()

	assert.Equal(t, []string{"right", "l"}, b.Keys())
	assert.Equal(t, "→", b.Help().Key)
	assert.Equal(t, "next page", b.Help().Desc)
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyRight}, b))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}}, b))

	hidden := keys.NewBind("secret", keys.New("x", keys.Hidden()))
	hb := hidden.BubbleKey()
	assert.Empty(t, hb.Help().Key)
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}, hb))
}

func TestValidateBinds(t *testing.T) {
	t.Parallel()

	prev := keys.NewBind("prev", keys.New("left"))
	next := keys.NewBind("next", keys.New("right"))
	dup := keys.NewBind("dup", keys.New("left"), keys.New("right"))

	require.NoError(t, keys.ValidateBinds(&prev, &next, nil))

	err := keys.ValidateBinds(&prev, &next, &dup)
	require.ErrorIs(t, err, keys.ErrDuplicateBind)
	assert.Contains(t, err.Error(), `"left" used by "prev" and "dup"`)
	assert.Contains(t, err.Error(), `"right" used by "next" and "dup"`)
}

func TestSetDefaultBind(t *testing.T) {
	t.Parallel()

	def := keys.NewBind("quit", keys.New("q"))

	var unset *keys.KeyBind
	keys.SetDefaultBind(&unset, def)
	require.NotNil(t, unset)
	assert.Equal(t, def, *unset)

	partial := &keys.KeyBind{Keys: []keys.Key{keys.New("ctrl+c")}}
	keys.SetDefaultBind(&partial, def)
	assert.Equal(t, "quit", partial.Description)
	assert.Equal(t, "ctrl+c", partial.Keys[0].Code)
}

func TestHelp(t *testing.T) {
	t.Parallel()

	prev := keys.NewBind("prev", keys.New("left"))
	next := keys.NewBind("next", keys.New("right"))
	quit := keys.NewBind("quit", keys.New("q"))

	h := keys.NewHelp([]*keys.KeyBind{&prev, &next}, []*keys.KeyBind{&prev, &next}, []*keys.KeyBind{&quit})

	assert.Len(t, h.ShortHelp(), 2)
	require.Len(t, h.FullHelp(), 2)
	assert.Equal(t, []string{"q"}, h.FullHelp()[1][0].Keys())
}
