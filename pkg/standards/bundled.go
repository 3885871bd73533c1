package standards

import (
	_ "embed"
	"sync"
)

//go:embed data/standards.json
var bundledJSON []byte

var loadBundled = sync.OnceValues(func() ([]Standard, error) {
	return Parse(bundledJSON)
})

// Bundled returns the dataset compiled into the binary. Callers must not
// modify the returned slice.
func Bundled() ([]Standard, error) {
	return loadBundled()
}

// BundledPath is where the refresh command writes the dataset, relative to
// the repository root.
const BundledPath = "pkg/standards/data/standards.json"
