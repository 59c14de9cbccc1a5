package instructions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupKnownOperations(t *testing.T) {
	instr := Lookup("MatchupAnalysisQuery")
	assert.Equal(t, Partition, instr.How)
	assert.Equal(t, "matchupAnalysis.somePrediction", instr.Path)

	path, err := instr.ParsedPath()
	require.NoError(t, err)
	assert.Equal(t, "matchupAnalysis.somePrediction", path.String())
}

func TestLookupDoNotPartitionOperations(t *testing.T) {
	instr := Lookup("GameInstances")
	assert.Equal(t, DoNotPartition, instr.How)
	assert.Empty(t, instr.Path)
}

func TestLookupUnknownOperationDefaultsToDoNotProcess(t *testing.T) {
	instr := Lookup("SomeOperationNotInTheTable")
	assert.Equal(t, DoNotProcess, instr.How)
}

func TestHowString(t *testing.T) {
	assert.Equal(t, "do not process", DoNotProcess.String())
	assert.Equal(t, "do not partition", DoNotPartition.String())
	assert.Equal(t, "partition", Partition.String())
}
