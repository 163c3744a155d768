package assets

import (
	"sync"

	"github.com/pblayo/udata/internal/webpack"
)

type BuildMetadata struct {
	Outputs map[string]OutputInfo `json:"outputs"`
}

type OutputInfo struct {
	EntryPoint string       `json:"entryPoint"`
	Imports    []ImportInfo `json:"imports"`
}

type ImportInfo struct {
	Path string `json:"path"`
}

// Pipeline drives development builds of the configured bundles and
// answers script lookups against the resulting metadata
type Pipeline struct {
	record   *webpack.Record
	config   Config
	metadata *BuildMetadata
	mu       sync.RWMutex
}

// New creates a pipeline for the given configuration record
func New(record *webpack.Record, config Config) *Pipeline {
	return &Pipeline{
		record: record,
		config: config,
	}
}
