package ui

import (
	"testing"

	"github.com/kestrelhq/kestrel/internal/catalog"
)

func TestPickAsset(t *testing.T) {
	tests := []struct {
		name      string
		assets    map[string]catalog.Asset
		requested string
		want      string
	}{
		{
			name:      "requested key wins",
			assets:    map[string]catalog.Asset{"visual": {}, "b04": {}},
			requested: "b04",
			want:      "b04",
		},
		{
			name:      "missing request falls back to visual",
			assets:    map[string]catalog.Asset{"visual": {}, "b04": {}},
			requested: "gone",
			want:      "visual",
		},
		{
			name:   "thumbnail when no visual",
			assets: map[string]catalog.Asset{"thumbnail": {}, "b04": {}},
			want:   "thumbnail",
		},
		{
			name:   "first key in stable order as last resort",
			assets: map[string]catalog.Asset{"zz": {}, "b04": {}},
			want:   "b04",
		},
		{
			name: "no assets at all",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := catalog.Item{ID: "x", Assets: tt.assets}
			if got := pickAsset(item, tt.requested); got != tt.want {
				t.Errorf("pickAsset() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate() = %q, want unchanged", got)
	}
	if got := truncate("a-much-longer-string", 8); got != "a-much-…" {
		t.Errorf("truncate() = %q, want a-much-…", got)
	}
}
