package input

import (
	"fmt"
	"os"

	"github.com/simmobility/st-core/network"
	"github.com/simmobility/st-core/utils/config"
)

// Load resolves cfg's network_source into a network.NetworkLoader: an XML
// file when Network.File is set, otherwise a Mongo download (optionally
// served from cacheDir), matching spec §6's "file-based sources take
// precedence over the database when both are set" — grounded on the
// teacher's Init's file-vs-database branch in utils/input/input.go.
func Load(cfg config.Input, cacheDir string) (network.NetworkLoader, error) {
	if !preCheckCache(cacheDir) {
		cacheDir = ""
	}

	if cfg.Network.File != "" {
		return LoadXML(cfg.Network.File)
	}
	if len(cfg.Network.Files) > 0 {
		return nil, fmt.Errorf("input: multiple network files are not supported")
	}
	if cfg.Source != config.NetworkSourceDatabase {
		return nil, fmt.Errorf("input: network_source is %q but no network file was given", cfg.Source)
	}
	if cfg.URI == "" {
		return nil, fmt.Errorf("input: network_source is database but input.uri is empty")
	}
	return LoadMongo(cfg.Network, cfg.URI, cacheDir)
}

// preCheckCache validates cacheDir the way the teacher's preCheckCache does:
// empty disables caching outright, a non-directory path disables it with a
// warning rather than failing the whole load.
func preCheckCache(cacheDir string) bool {
	if cacheDir == "" {
		log.Info("input cache disabled")
		return false
	}
	stat, err := os.Stat(cacheDir)
	if err != nil || !stat.IsDir() {
		log.Errorf("input cache disabled: %q is not a directory", cacheDir)
		return false
	}
	log.Infof("input cache enabled at %s", cacheDir)
	return true
}
