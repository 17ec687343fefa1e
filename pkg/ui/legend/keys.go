package legend

import (
	"github.com/macropower/pagelegend/pkg/keys"
)

type KeyBinds struct {
	// Paging.
	PrevPage *keys.KeyBind `json:"prevPage,omitempty"`
	NextPage *keys.KeyBind `json:"nextPage,omitempty"`

	// Pieces.
	PrevPiece *keys.KeyBind `json:"prevPiece,omitempty"`
	NextPiece *keys.KeyBind `json:"nextPiece,omitempty"`
	Toggle    *keys.KeyBind `json:"toggle,omitempty"`
	Copy      *keys.KeyBind `json:"copy,omitempty"`

	// Common.
	Help *keys.KeyBind `json:"help,omitempty"`
	Quit *keys.KeyBind `json:"quit,omitempty"`
}

func NewKeyBinds() *KeyBinds {
	kb := &KeyBinds{}
	kb.EnsureDefaults()

	return kb
}

func (kb *KeyBinds) EnsureDefaults() {
	keys.SetDefaultBind(&kb.PrevPage,
		keys.NewBind("previous page",
			keys.New("pgup"),
			keys.New("[", keys.Hidden()),
		))
	keys.SetDefaultBind(&kb.NextPage,
		keys.NewBind("next page",
			keys.New("pgdown", keys.WithAlias("pgdn")),
			keys.New("]", keys.Hidden()),
		))
	keys.SetDefaultBind(&kb.PrevPiece,
		keys.NewBind("previous piece",
			keys.New("left", keys.WithAlias("←")),
			keys.New("up", keys.WithAlias("↑")),
			keys.New("h", keys.Hidden()),
			keys.New("k", keys.Hidden()),
		))
	keys.SetDefaultBind(&kb.NextPiece,
		keys.NewBind("next piece",
			keys.New("right", keys.WithAlias("→")),
			keys.New("down", keys.WithAlias("↓")),
			keys.New("l", keys.Hidden()),
			keys.New("j", keys.Hidden()),
		))
	keys.SetDefaultBind(&kb.Toggle,
		keys.NewBind("toggle piece",
			keys.New(" ", keys.WithAlias("space")),
			keys.New("enter", keys.Hidden()),
		))
	keys.SetDefaultBind(&kb.Copy,
		keys.NewBind("copy page",
			keys.New("y"),
			keys.New("c", keys.Hidden()),
		))
	keys.SetDefaultBind(&kb.Help,
		keys.NewBind("toggle help",
			keys.New("?"),
		))
	keys.SetDefaultBind(&kb.Quit,
		keys.NewBind("quit",
			keys.New("q"),
			keys.New("ctrl+c", keys.Hidden()),
		))
}

func (kb *KeyBinds) GetKeyBinds() []*keys.KeyBind {
	return []*keys.KeyBind{
		kb.PrevPage,
		kb.NextPage,
		kb.PrevPiece,
		kb.NextPiece,
		kb.Toggle,
		kb.Copy,
		kb.Help,
		kb.Quit,
	}
}

func (kb *KeyBinds) Validate() error {
	return keys.ValidateBinds(kb.GetKeyBinds()...) //nolint:wrapcheck // Joined bind errors.
}

// HelpKeyMap returns the key map rendered by the help line.
func (kb *KeyBinds) HelpKeyMap() keys.Help {
	return keys.NewHelp(
		[]*keys.KeyBind{kb.PrevPage, kb.NextPage, kb.Toggle, kb.Help, kb.Quit},
		[]*keys.KeyBind{kb.PrevPage, kb.NextPage},
		[]*keys.KeyBind{kb.PrevPiece, kb.NextPiece, kb.Toggle, kb.Copy},
		[]*keys.KeyBind{kb.Help, kb.Quit},
	)
}
