package expr

import (
	"github.com/dustin/go-humanize"
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"
)

// lib declares the page variables and the number formatting functions.
type lib struct{}

func (lib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		ext.Math(),
		ext.Strings(),

		cel.Variable("current", cel.IntType),
		cel.Variable("total", cel.IntType),

		// ordinal(2) == "2nd"
		intToString("ordinal", func(n int64) string { return humanize.Ordinal(int(n)) }),
		// comma(1024) == "1,024"
		intToString("comma", humanize.Comma),
	}
}

func (lib) ProgramOptions() []cel.ProgramOption {
	return nil
}

func intToString(name string, fn func(int64) string) cel.EnvOption {
	return cel.Function(name,
		cel.Overload(name+"_int", []*cel.Type{cel.IntType}, cel.StringType,
			cel.UnaryBinding(func(v ref.Val) ref.Val {
				n, ok := v.(types.Int)
				if !ok {
					return types.NewErr("%s: invalid int value", name)
				}

				return types.String(fn(int64(n)))
			}),
		),
	)
}
