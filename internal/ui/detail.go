package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kestrelhq/kestrel/internal/catalog"
)

// preferredAssets is the fallback order when an item has no asset under the
// requested key.
var preferredAssets = []string{"visual", "thumbnail", "overview", "rendered_preview"}

// pickAsset resolves the asset to present for an item. The requested key
// wins when present; otherwise the first preferred key, then any asset in
// stable order. An empty result means the item has no assets at all and the
// caller falls back to the geometry outline.
func pickAsset(item catalog.Item, requested string) string {
	if requested != "" {
		if _, ok := item.Assets[requested]; ok {
			return requested
		}
	}
	for _, key := range preferredAssets {
		if _, ok := item.Assets[key]; ok {
			return key
		}
	}
	keys := make([]string, 0, len(item.Assets))
	for key := range item.Assets {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	if len(keys) > 0 {
		return keys[0]
	}
	return ""
}

// assetKeys returns an item's asset keys in stable order.
func assetKeys(item catalog.Item) []string {
	keys := make([]string, 0, len(item.Assets))
	for key := range item.Assets {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// renderDetail renders the selection pane for one item.
func renderDetail(styles Styles, item catalog.Item, assetKey string, width int) string {
	var b strings.Builder

	b.WriteString(styles.AccentText.Render(item.ID))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render(item.Collection))
	b.WriteString("\n\n")

	if item.Properties.Datetime != "" {
		fmt.Fprintf(&b, "%s %s\n", styles.MutedText.Render("captured"), item.Properties.Datetime)
	}
	if item.Properties.Platform != "" {
		fmt.Fprintf(&b, "%s %s\n", styles.MutedText.Render("platform"), item.Properties.Platform)
	}
	if item.Properties.CloudCover != nil {
		fmt.Fprintf(&b, "%s %.1f%%\n", styles.MutedText.Render("clouds  "), *item.Properties.CloudCover)
	}

	key := pickAsset(item, assetKey)
	if key == "" {
		b.WriteString("\n")
		b.WriteString(styles.WarningText.Render("no assets, showing footprint only"))
		b.WriteString("\n")
		return b.String()
	}
	if assetKey != "" && key != assetKey {
		b.WriteString("\n")
		b.WriteString(styles.WarningText.Render(fmt.Sprintf("asset %q unavailable, showing %q", assetKey, key)))
		b.WriteString("\n")
	}

	asset := item.Assets[key]
	b.WriteString("\n")
	b.WriteString(styles.Text.Render(assetLabel(key, asset)))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(truncate(asset.Href, width)))
	b.WriteString("\n")

	other := make([]string, 0, len(item.Assets))
	for k := range item.Assets {
		if k != key {
			other = append(other, k)
		}
	}
	if len(other) > 0 {
		sort.Strings(other)
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render("also: " + strings.Join(other, ", ")))
		b.WriteString("\n")
	}
	return b.String()
}

func assetLabel(key string, asset catalog.Asset) string {
	if asset.Title != "" {
		return asset.Title
	}
	return key
}

func truncate(s string, width int) string {
	if width <= 1 || len(s) <= width {
		return s
	}
	return s[:width-1] + "…"
}
