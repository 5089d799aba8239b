package app

import (
	"bufio"
	"errors"
	"os"
	"strings"
)

// Env resolves configuration keys from the process environment first and
// from values read out of dotenv files second. It never writes to the process
// environment.
type Env struct {
	lookup func(string) (string, bool)
	file   map[string]string
}

// NewEnv combines a process environment lookup (usually os.LookupEnv) with
// dotenv values. Either may be nil.
func NewEnv(lookup func(string) (string, bool), file map[string]string) Env {
	return Env{lookup: lookup, file: file}
}

// Get returns the first non-empty value among keys. For each key a process
// variable that is set, even to an empty string, hides the dotenv value.
func (e Env) Get(keys ...string) string {
	for _, k := range keys {
		v, ok := "", false
		if e.lookup != nil {
			v, ok = e.lookup(k)
		}
		if !ok {
			v = e.file[k]
		}
		if v != "" {
			return v
		}
	}
	return ""
}

// LoadEnvFiles reads one or more dotenv files of KEY=VALUE pairs. Earlier
// files win over later ones for the same key. Lines starting with '#' and
// blank lines are ignored. Values are not expanded; one layer of matching
// surrounding quotes is stripped. Missing files are skipped.
func LoadEnvFiles(paths ...string) (map[string]string, error) {
	out := make(map[string]string)
	seen := make(map[string]bool)
	for _, p := range paths {
		if strings.TrimSpace(p) == "" || seen[p] {
			continue
		}
		seen[p] = true
		if err := loadEnvFile(p, out); err != nil {
			// Missing files are not fatal; continue to next path
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
	}
	return out, nil
}

func loadEnvFile(path string, into map[string]string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// Simple KEY=VALUE parser; stops at first '='
		eq := strings.IndexByte(line, '=')
		if eq <= 0 {
			// ignore malformed lines silently
			continue
		}
		key := strings.TrimSpace(line[:eq])
		if _, exists := into[key]; exists || key == "" {
			continue
		}
		into[key] = unquote(strings.TrimSpace(line[eq+1:]))
	}
	return scanner.Err()
}

func unquote(val string) string {
	if len(val) >= 2 {
		if (val[0] == '"' && val[len(val)-1] == '"') || (val[0] == '\'' && val[len(val)-1] == '\'') {
			return strings.TrimSpace(val[1 : len(val)-1])
		}
	}
	return val
}
