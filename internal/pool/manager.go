package pool

import "runtime"

// MaxWorkerCount caps the gql pool's reader count.
const MaxWorkerCount = 12

// Names of the six pools.
const (
	NameCore       = "core"
	NameData       = "data"
	NameGql        = "gql"
	NameDebug      = "debug"
	NameModeration = "moderation"
	NameBundles    = "bundles"
)

// DefaultConfigs returns the reader/writer counts assigned to each named
// pool, with gql sized to min(host CPUs, MaxWorkerCount).
func DefaultConfigs(queueDepth int) map[string]Config {
	gqlReaders := runtime.NumCPU()
	if gqlReaders > MaxWorkerCount {
		gqlReaders = MaxWorkerCount
	}
	return map[string]Config{
		NameCore:    {Name: NameCore, Readers: 1, Writers: 1, QueueDepth: queueDepth},
		NameData:    {Name: NameData, Readers: 2, Writers: 1, QueueDepth: queueDepth},
		NameGql:    {Name: NameGql, Readers: gqlReaders, Writers: 0, QueueDepth: queueDepth},
		NameDebug:   {Name: NameDebug, Readers: 1, Writers: 0, QueueDepth: queueDepth},
		NameModeration: {Name: NameModeration, Readers: 1, Writers: 1, QueueDepth: queueDepth},
		NameBundles:  {Name: NameBundles, Readers: 1, Writers: 1, QueueDepth: queueDepth},
	}
}
