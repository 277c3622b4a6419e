package divinity

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/go-logr/logr"
	"github.com/joho/godotenv"
	"github.com/viant/divinity/genai/persona"
	"github.com/viant/divinity/internal/logging"
)

var (
	globalsMu sync.RWMutex
	globals   = &Options{}
)

func setGlobals(opts *Options) {
	globalsMu.Lock()
	globals = opts
	globalsMu.Unlock()
}

func currentGlobals() *Options {
	globalsMu.RLock()
	defer globalsMu.RUnlock()
	return globals
}

// loadEnv reads the dotenv file when it exists; variables already set win.
func loadEnv() error {
	path := currentGlobals().EnvFile
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %v: %w", path, err)
	}
	return nil
}

func newLogger(w io.Writer) logr.Logger {
	return logging.New(w, len(currentGlobals().Verbose))
}

// resolvePair loads the catalog and picks the pair; an unknown id is an error.
func resolvePair(ctx context.Context, catalogURL, pairID string) (*persona.Catalog, persona.Pair, error) {
	catalog, err := persona.NewLoader(nil).Load(ctx, catalogURL)
	if err != nil {
		return nil, persona.Pair{}, err
	}
	if pairID == "" {
		return catalog, catalog.Pairs[0], nil
	}
	pair, ok := catalog.Find(pairID)
	if !ok {
		return nil, persona.Pair{}, fmt.Errorf("unknown persona pair %q, available: %v", pairID, catalog.IDs())
	}
	return catalog, pair, nil
}
