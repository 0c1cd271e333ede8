package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestStylesUseSecondarySurfaces(t *testing.T) {
	for _, name := range themeOrder {
		t.Run(name, func(t *testing.T) {
			th := GetTheme(name)
			s := th.Styles()
			if got := s.Footer.GetBackground(); got != lipgloss.Color(th.SurfaceAlt) {
				t.Errorf("Footer background = %v, want %v", got, th.SurfaceAlt)
			}
			if got := s.Header.GetBackground(); got != lipgloss.Color(th.Surface) {
				t.Errorf("Header background = %v, want %v", got, th.Surface)
			}
		})
	}
}

func TestNextThemeCycles(t *testing.T) {
	seen := map[string]bool{}
	name := themeOrder[0]
	for range themeOrder {
		seen[name] = true
		name = NextTheme(name)
	}
	if name != themeOrder[0] {
		t.Errorf("cycle ended at %q, want %q", name, themeOrder[0])
	}
	if len(seen) != len(themeOrder) {
		t.Errorf("cycle visited %d themes, want %d", len(seen), len(themeOrder))
	}
}
