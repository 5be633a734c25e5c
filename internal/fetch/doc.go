// Package fetch installs the prebuilt binaries the launcher runs.
//
// It queries the GitHub release index for the latest release, assigns each
// release asset to a platform key by case-insensitive substring rules, then
// downloads and extracts every selected archive into <root>/bin/<key>/.
// Finally it records the installed version in <root>/bin/version.json.
//
// # Architecture
//
//   - ReleaseClient: GitHub "latest release" lookup
//   - SelectAssets: asset name to platform key mapping
//   - Downloader: HTTP download with retry logic and atomic rename
//   - Extractor: archive extraction (.zip, .tar.gz)
//   - Fetcher: orchestration under an exclusive lock on <root>/bin
//
// Releases are not signature- or checksum-verified.
//
// # Usage
//
//	f, err := fetch.NewFetcher(cfg)
//	if err != nil {
//	    return err
//	}
//	result, err := f.Fetch(ctx, fetch.Options{})
package fetch
