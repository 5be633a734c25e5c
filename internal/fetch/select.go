package fetch

import (
	"strings"

	"github.com/ZebulonRouseFrantzich/rokit-launcher/internal/config"
	"github.com/ZebulonRouseFrantzich/rokit-launcher/internal/platform"
)

// SelectAssets assigns assets to platform keys.
//
// Each asset goes to the first rule with a pattern contained in its
// lower-cased name; assets matching no rule are skipped. If several assets
// land on the same key, the one listed last in the release wins.
func SelectAssets(assets []Asset, rules []config.AssetRule) map[platform.Key]Asset {
	selected := make(map[platform.Key]Asset)

	for _, asset := range assets {
		name := strings.ToLower(asset.Name)
		if key, ok := matchRule(name, rules); ok {
			selected[key] = asset
		}
	}

	return selected
}

func matchRule(name string, rules []config.AssetRule) (platform.Key, bool) {
	for _, rule := range rules {
		for _, pattern := range rule.Patterns {
			if strings.Contains(name, strings.ToLower(pattern)) {
				return rule.Key, true
			}
		}
	}
	return "", false
}
