// Package instructions holds the static, operation-name-keyed policy table
// that tells the request router whether and how to partition an incoming
// GraphQL operation.
package instructions

import "github.com/samsarahq/graphql-cacher/gqlpartition"

// How is the policy associated with an operation name: process it at all,
// and if so, whether to split it.
type How int

const (
	// DoNotProcess sends the request to the origin unmodified. This is the
	// default for any operation name not present in Table.
	DoNotProcess How = iota
	// DoNotPartition still processes the request (it is flat-cached against
	// the main backend, so it gets the cacher's response headers) but issues
	// it to the origin as a single GET request, without a worker.
	DoNotPartition
	// Partition splits the operation along Path and dispatches both halves
	// concurrently.
	Partition
)

func (h How) String() string {
	switch h {
	case DoNotProcess:
		return "do not process"
	case DoNotPartition:
		return "do not partition"
	case Partition:
		return "partition"
	default:
		return "unknown"
	}
}

// Instruction pairs a How with the path to partition along, when How is
// Partition. Path is the empty string for every other How value.
type Instruction struct {
	How  How
	Path string
}

// ParsedPath validates and returns i.Path. Only meaningful when i.How is
// Partition; a bad path in Table is always a configuration error, not a
// runtime condition, which is why it is validated lazily here rather than
// at Table construction (a panicking package init would take down the
// whole process for a typo in an unrelated operation's entry).
func (i Instruction) ParsedPath() (gqlpartition.Path, error) {
	return gqlpartition.ParsePath(i.Path)
}

func doNotPartition() Instruction { return Instruction{How: DoNotPartition} }

func partition(path string) Instruction { return Instruction{How: Partition, Path: path} }

// Table is the immutable operation-name → Instruction lookup. It is built
// once as a package-level map literal; nothing in this package mutates it
// after init. A missing operation name resolves to the zero Instruction,
// whose How is DoNotProcess.
var Table = map[string]Instruction{
	"MatchupAnalysisQuery":          partition("matchupAnalysis.somePrediction"),
	"PushNotificationSubscriptions": doNotPartition(),
	"GameInstances":                 doNotPartition(),
	"CentralBracketsState":          doNotPartition(),
	"CentralGameInstancesQuery":     doNotPartition(),
	"CentralTeamsQuery":             doNotPartition(),
	"PoolPeriodQuery":               doNotPartition(),
	"FantasyArticlesQuery":          doNotPartition(),
	"AssetSrcQuery":                 doNotPartition(),
}

// Lookup returns Table's entry for name, or the DoNotProcess zero value if
// name is absent.
func Lookup(name string) Instruction {
	if instr, ok := Table[name]; ok {
		return instr
	}
	return Instruction{How: DoNotProcess}
}
