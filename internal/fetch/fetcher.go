package fetch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/ZebulonRouseFrantzich/rokit-launcher/internal/config"
	"github.com/ZebulonRouseFrantzich/rokit-launcher/internal/platform"
	"github.com/ZebulonRouseFrantzich/rokit-launcher/internal/transaction"
)

// LockFileName guards <root>/bin against concurrent fetches.
const LockFileName = "fetch.lock"

// ErrNoAssets is returned when the release has nothing to install for the
// requested platform keys.
var ErrNoAssets = errors.New("release has no assets for the requested platforms")

// Fetcher downloads and installs release binaries into an install root.
type Fetcher struct {
	cfg        *config.Config
	releases   *ReleaseClient
	downloader *Downloader
	extractor  *Extractor
	logger     *slog.Logger
	now        func() time.Time
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithLogger sets the logger for progress messages.
func WithLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// WithReleaseClient replaces the release index client.
func WithReleaseClient(c *ReleaseClient) FetcherOption {
	return func(f *Fetcher) {
		f.releases = c
	}
}

// WithDownloader replaces the asset downloader.
func WithDownloader(d *Downloader) FetcherOption {
	return func(f *Fetcher) {
		f.downloader = d
	}
}

// WithClock sets the time source used for the version record.
func WithClock(now func() time.Time) FetcherOption {
	return func(f *Fetcher) {
		f.now = now
	}
}

// NewFetcher creates a fetcher for cfg.
func NewFetcher(cfg *config.Config, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		cfg:        cfg,
		releases:   NewReleaseClient(cfg.APIBaseURL, cfg.Repo),
		downloader: NewDownloader(),
		extractor:  NewExtractor(),
		logger:     slog.New(slog.DiscardHandler),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch installs the latest release.
//
// Each selected asset is downloaded to <root>/bin/<key>.<ext>, extracted into
// a staging directory that then replaces <root>/bin/<key>, and removed. The
// version record is written only after every key has been installed; any
// failure aborts the fetch.
func (f *Fetcher) Fetch(ctx context.Context, opts Options) (*Result, error) {
	start := f.now()
	if err := f.cfg.ValidateFetch(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	binDir := f.cfg.BinDir()

	lock, err := transaction.AcquireLock(ctx, binDir, LockFileName)
	if err != nil {
		return nil, fmt.Errorf("acquire fetch lock: %w", err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			f.logger.Warn("failed to release fetch lock", "path", lock.Path(), "error", err)
		}
	}()

	f.recoverInterrupted(binDir)

	release, err := f.releases.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch latest release: %w", err)
	}
	version := release.Version()
	f.logger.Info("latest release", "repo", f.cfg.Repo, "version", version, "assets", len(release.Assets))

	selected := SelectAssets(release.Assets, f.cfg.Assets)
	keys, missing := planKeys(selected, opts.Keys)
	for _, key := range missing {
		f.logger.Warn("no release asset for platform", "key", key, "version", version)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w (release %s)", ErrNoAssets, release.TagName)
	}

	names := make([]string, len(keys))
	for i, key := range keys {
		names[i] = key.String()
	}
	journal := transaction.NewJournal(version, names)
	if err := journal.Save(binDir); err != nil {
		return nil, fmt.Errorf("save fetch journal: %w", err)
	}

	result := &Result{
		Version: version,
		Missing: missing,
	}
	for _, key := range keys {
		installed, err := f.install(ctx, journal, binDir, key, selected[key])
		if err != nil {
			return nil, fmt.Errorf("install %s: %w", key, err)
		}
		result.Installed = append(result.Installed, installed)
	}

	if err := WriteVersionRecord(binDir, NewVersionRecord(version, f.now())); err != nil {
		return nil, err
	}
	if err := transaction.RemoveJournal(binDir); err != nil {
		f.logger.Warn("failed to remove fetch journal", "error", err)
	}

	result.Duration = f.now().Sub(start)
	return result, nil
}

func (f *Fetcher) install(ctx context.Context, journal *transaction.Journal, binDir string, key platform.Key, asset Asset) (Installed, error) {
	name := key.String()

	ext, err := ArchiveExtension(asset.Name)
	if err != nil {
		return Installed{}, err
	}

	archivePath := filepath.Join(binDir, name+ext)
	stagingDir := filepath.Join(binDir, "."+name+".staging")
	finalDir := filepath.Join(binDir, name)

	journal.Update(name, transaction.StateInProgress, []string{archivePath, archivePath + ".tmp", stagingDir}, nil)
	if err := journal.Save(binDir); err != nil {
		return Installed{}, fmt.Errorf("save fetch journal: %w", err)
	}

	fail := func(err error) (Installed, error) {
		journal.Update(name, transaction.StateFailed, nil, err)
		if saveErr := journal.Save(binDir); saveErr != nil {
			f.logger.Warn("failed to save fetch journal", "error", saveErr)
		}
		return Installed{}, err
	}

	f.logger.Info("downloading asset", "key", key, "asset", asset.Name, "size", asset.Size)
	if err := f.downloader.DownloadToFile(ctx, asset.BrowserDownloadURL, archivePath); err != nil {
		return fail(err)
	}

	if err := os.RemoveAll(stagingDir); err != nil {
		return fail(fmt.Errorf("clear staging dir: %w", err))
	}
	if err := f.extractor.Extract(archivePath, stagingDir); err != nil {
		_ = os.RemoveAll(stagingDir)
		return fail(fmt.Errorf("extract %s: %w", asset.Name, err))
	}

	if err := os.RemoveAll(finalDir); err != nil {
		return fail(fmt.Errorf("remove previous install: %w", err))
	}
	if err := os.Rename(stagingDir, finalDir); err != nil {
		return fail(fmt.Errorf("move staging dir into place: %w", err))
	}

	if err := os.Remove(archivePath); err != nil {
		f.logger.Warn("failed to remove archive", "path", archivePath, "error", err)
	}

	files, err := countFiles(finalDir)
	if err != nil {
		return fail(err)
	}

	journal.Update(name, transaction.StateCompleted, nil, nil)
	if err := journal.Save(binDir); err != nil {
		return Installed{}, fmt.Errorf("save fetch journal: %w", err)
	}

	f.logger.Info("installed", "key", key, "dir", finalDir, "files", files)
	return Installed{
		Key:   key,
		Asset: asset,
		Dir:   finalDir,
		Files: files,
	}, nil
}

// recoverInterrupted removes scratch files left by a fetch that died
// without finishing.
func (f *Fetcher) recoverInterrupted(binDir string) {
	journal, err := transaction.LoadJournal(binDir)
	if err != nil {
		f.logger.Warn("discarding unreadable fetch journal", "error", err)
		_ = transaction.RemoveJournal(binDir)
		return
	}
	if journal == nil {
		return
	}

	// Every key was installed; only the final bookkeeping was lost.
	if journal.Completed() {
		f.logger.Debug("dropping journal of completed fetch", "id", journal.ID)
		if err := transaction.RemoveJournal(binDir); err != nil {
			f.logger.Warn("failed to remove fetch journal", "error", err)
		}
		return
	}

	f.logger.Warn("cleaning up interrupted fetch", "id", journal.ID, "release", journal.Release)
	for _, path := range journal.Leftovers() {
		if err := os.RemoveAll(path); err != nil {
			f.logger.Warn("failed to remove leftover", "path", path, "error", err)
		}
	}
	if err := transaction.RemoveJournal(binDir); err != nil {
		f.logger.Warn("failed to remove fetch journal", "error", err)
	}
}

// planKeys returns the keys to install in platform.AllKeys order, and the
// requested keys the release has no asset for. An empty want selects every
// key with an asset.
func planKeys(selected map[platform.Key]Asset, want []platform.Key) (keys, missing []platform.Key) {
	for _, key := range platform.AllKeys {
		if len(want) > 0 && !slices.Contains(want, key) {
			continue
		}
		if _, ok := selected[key]; ok {
			keys = append(keys, key)
		} else if len(want) > 0 {
			missing = append(missing, key)
		}
	}
	return keys, missing
}

func countFiles(dir string) (int, error) {
	count := 0
	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count installed files: %w", err)
	}
	return count, nil
}
