package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/tikz/exposure/cache"
	"github.com/tikz/exposure/config"
	"github.com/tikz/exposure/http"
	"github.com/tikz/exposure/pdb"
)

var pdbIDPattern = regexp.MustCompile(`^[0-9][A-Za-z0-9]{3}$`)

// LoadStructure parses the structure at path. When no such file exists and the argument
// is a PDB ID, the entry is downloaded from RCSB through the local cache, and a copy of
// the PDB file is written next to the cache database.
func LoadStructure(ctx context.Context, arg string, cfg *config.Config, log *slog.Logger) (*pdb.PDB, error) {
	_, err := os.Stat(arg)
	if err == nil {
		log.Debug("reading structure file", "path", arg)
		return pdb.NewPDBFromFile(arg)
	}
	if !errors.Is(err, os.ErrNotExist) || !pdbIDPattern.MatchString(arg) {
		return nil, fmt.Errorf("load structure: %w", err)
	}

	c, err := cache.Open(cfg.Cache.Path)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	log.Debug("loading PDB entry", "id", arg, "cache", cfg.Cache.Path)
	client := http.NewClient(cfg.HTTP.Timeout, cfg.HTTP.UserAgent)
	p, err := pdb.NewPDBFromID(ctx, c.Getter(client), arg)
	if err != nil {
		return nil, fmt.Errorf("load PDB %s: %w", arg, err)
	}

	if cfg.Cache.Path != ":memory:" {
		path := filepath.Join(filepath.Dir(cfg.Cache.Path), p.ID+".pdb")
		if err := p.WriteFile(path); err != nil {
			return nil, err
		}
		log.Debug("saved PDB file", "path", path)
	}

	return p, nil
}
