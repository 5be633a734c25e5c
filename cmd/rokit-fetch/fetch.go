package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/ZebulonRouseFrantzich/rokit-launcher/internal/config"
	"github.com/ZebulonRouseFrantzich/rokit-launcher/internal/fetch"
	"github.com/ZebulonRouseFrantzich/rokit-launcher/internal/platform"
)

// fetchTimeout bounds a complete fetch, including every download.
const fetchTimeout = 15 * time.Minute

// fetchFlags holds parsed command-line options.
type fetchFlags struct {
	help    bool
	version bool
	current bool
	status  bool
	root    string
	repo    string
}

func parseFetchFlags(args []string) (*fetchFlags, error) {
	flags := &fetchFlags{}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--help", "-h":
			flags.help = true
		case "--version":
			flags.version = true
		case "--current", "-c":
			flags.current = true
		case "--status", "-s":
			flags.status = true
		case "--root", "--repo":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires a value", arg)
			}
			i++
			if arg == "--root" {
				flags.root = args[i]
			} else {
				flags.repo = args[i]
			}
		default:
			return nil, fmt.Errorf("unknown option: %s\nRun 'rokit-fetch --help' for usage", arg)
		}
	}

	return flags, nil
}

// runFetch handles the rokit-fetch command
func runFetch(args []string, stdout, stderr io.Writer) error {
	flags, err := parseFetchFlags(args)
	if err != nil {
		return err
	}

	if flags.help {
		printFetchHelp(stdout)
		return nil
	}
	if flags.version {
		fmt.Fprintf(stdout, "rokit-fetch %s\n", Version)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	opts := []config.Option{
		config.WithOverrides(map[string]any{config.KeyRepo: flags.repo}),
	}
	if flags.root != "" {
		opts = append(opts, config.WithInstallRoot(flags.root))
	}
	cfg, err := config.Load(ctx, opts...)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if flags.status {
		return showStatus(cfg, stdout)
	}

	var fetchOpts fetch.Options
	if flags.current {
		key, err := platform.CurrentKey()
		if err != nil {
			return err
		}
		fetchOpts.Keys = []platform.Key{key}
	}

	logger := config.NewLogger(stderr, cfg.Debug)
	fmt.Fprintf(stdout, "Fetching latest release of %s...\n", cfg.Repo)

	result, err := fetch.NewFetcher(cfg, fetch.WithLogger(logger)).Fetch(ctx, fetchOpts)
	if err != nil {
		if errors.Is(err, fetch.ErrRateLimited) {
			return fmt.Errorf("%w\nSet GITHUB_TOKEN to raise the limit", err)
		}
		return err
	}

	fmt.Fprint(stdout, renderResult(cfg, result))
	return nil
}

// showStatus prints the installed version and which platform directories
// hold a binary.
func showStatus(cfg *config.Config, stdout io.Writer) error {
	rec, err := fetch.ReadVersionRecord(cfg.BinDir())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	fmt.Fprint(stdout, renderStatus(cfg, rec, installedKeys(cfg)))
	return nil
}

func printFetchHelp(w io.Writer) {
	fmt.Fprintln(w, "Usage: rokit-fetch [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Download the latest rokit release and install it for every platform.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --root <dir>           Install root (default: directory of this executable)")
	fmt.Fprintln(w, "  --repo <owner/name>    GitHub repository to fetch releases from")
	fmt.Fprintln(w, "  -c, --current          Only install the binary for this platform")
	fmt.Fprintln(w, "  -s, --status           Show the installed version and exit")
	fmt.Fprintln(w, "  --version              Show version information")
	fmt.Fprintln(w, "  -h, --help             Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  ROKIT_HOME, ROKIT_REPO, ROKIT_API_BASE, ROKIT_DEBUG, GITHUB_TOKEN")
}
