// Package uitest provides testing utilities for Bubble Tea models.
//
//   - ANSI style verification: parse and verify specific ANSI sequences.
//   - A generic model adapter for models whose Update method returns the
//     concrete type instead of [tea.Model], so they can run under teatest.
//
// # Testing Models
//
//	func TestLegend(t *testing.T) {
//	    t.Parallel()
//	    uitest.SetupColorProfile()
//
//	    tm := uitest.NewTestModel(t, legend.NewModel(cfg), uitest.Strip)
//	    uitest.WaitForText(t, tm, "1/3")
//	    uitest.SendKey(tm, "pgdown")
//	    uitest.WaitForText(t, tm, "2/3")
//	    uitest.Quit(t, tm, "q")
//	}
//
// # Verifying Styles
//
//	verifier := uitest.NewANSIStyleVerifier(m.View())
//	verifier.ContainsStyledText(t, "< 10", uitest.StyleExpectation{
//	    Faint: uitest.Ptr(true),
//	})
package uitest
