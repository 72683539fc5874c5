// Package packformat maps Minecraft releases to the datapack pack_format
// number written into pack.mcmeta.
package packformat

import (
	"fmt"
	"sync"

	"github.com/Masterminds/semver/v3"
)

// DefaultVersion is the game version assumed when none is configured
const DefaultVersion = "1.15"

// The built-in advancement templates use the item/nbt icon layout, which
// 1.20.5 replaced with components, so the table stops at 1.20.4.
var table = []struct {
	constraint string
	format     int
}{
	{">= 1.13, < 1.15", 4},
	{">= 1.15, < 1.16.2", 5},
	{">= 1.16.2, < 1.17", 6},
	{">= 1.17, < 1.18", 7},
	{">= 1.18, < 1.18.2", 8},
	{">= 1.18.2, < 1.19", 9},
	{">= 1.19, < 1.19.4", 10},
	{">= 1.19.4, < 1.20", 12},
	{">= 1.20, < 1.20.2", 15},
	{">= 1.20.2, < 1.20.3", 18},
	{">= 1.20.3, < 1.20.5", 26},
}

type entry struct {
	constraints *semver.Constraints
	format      int
}

var (
	compiled    []entry
	compileOnce sync.Once
	compileErr  error
)

func entries() ([]entry, error) {
	compileOnce.Do(func() {
		for _, row := range table {
			c, err := semver.NewConstraint(row.constraint)
			if err != nil {
				compileErr = fmt.Errorf("compiling constraint %q: %w", row.constraint, err)
				return
			}
			compiled = append(compiled, entry{constraints: c, format: row.format})
		}
	})
	return compiled, compileErr
}

// Resolve returns the pack_format for a Minecraft version such as "1.15" or "1.16.5"
func Resolve(version string) (int, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return 0, fmt.Errorf("invalid minecraft version %q: %w", version, err)
	}

	rows, err := entries()
	if err != nil {
		return 0, err
	}

	for _, row := range rows {
		if row.constraints.Check(v) {
			return row.format, nil
		}
	}

	return 0, fmt.Errorf("unsupported minecraft version %q (supported: %s)", version, Supported())
}

// Supported describes the range of versions Resolve accepts
func Supported() string {
	return "1.13 - 1.20.4"
}
