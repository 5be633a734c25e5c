package fetch

import (
	"strings"
	"time"

	"github.com/ZebulonRouseFrantzich/rokit-launcher/internal/platform"
)

// Release is the subset of a GitHub release the fetcher needs.
type Release struct {
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	HTMLURL     string    `json:"html_url"`
	PublishedAt time.Time `json:"published_at"`
	Assets      []Asset   `json:"assets"`
}

// Version returns the tag name without a leading "v".
func (r *Release) Version() string {
	return strings.TrimPrefix(r.TagName, "v")
}

// Asset is a downloadable file attached to a release.
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
}

// Options configures a fetch.
type Options struct {
	// Keys restricts the fetch to these platform keys. Empty means every
	// key the release has an asset for.
	Keys []platform.Key
}

// Installed describes one extracted platform directory.
type Installed struct {
	Key   platform.Key
	Asset Asset
	Dir   string
	Files int
}

// Result summarizes a completed fetch.
type Result struct {
	Version   string
	Installed []Installed
	// Missing lists requested keys the release had no asset for.
	Missing   []platform.Key
	Duration  time.Duration
}
