package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justin-oleary/perfsuite/pkg/suite"
)

func TestNewSuiteFromArgs(t *testing.T) {
	ex, err := newSuite("-k Stream_DOT Basic_INIT3 -v Base_Seq RAJA_Seq --npasses 2")
	require.NoError(t, err)

	plan := ex.Plan()
	assert.Equal(t, []suite.KernelID{suite.Basic_INIT3, suite.Stream_DOT}, plan.Kernels)
	assert.Equal(t, 2, plan.NumPasses)
	assert.Equal(t, suite.Base_Seq, plan.Reference)
}

func TestNewSuiteRejectsBadArgs(t *testing.T) {
	_, err := newSuite("-k NoSuchKernel")
	assert.Error(t, err)

	_, err = newSuite("--dryrun -k Stream")
	assert.Error(t, err, "a dry run cannot validate a node")
}

func TestDefaultSuiteArgsAreValid(t *testing.T) {
	t.Setenv("PERFSUITE_ARGS", "")
	cmd := newRootCmd()
	args, err := cmd.Flags().GetString("suite-args")
	require.NoError(t, err)
	_, err = newSuite(args)
	assert.NoError(t, err)
}

func TestRunAgentRequiresNodeName(t *testing.T) {
	err := runAgent(t.Context(), agentConfig{suiteArgs: "-k Stream"})
	assert.ErrorContains(t, err, "NODE_NAME")
}
