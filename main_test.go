package main

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := newRootCommand()

	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{"scenario", "soak", "dump"})
	assert.NotNil(t, cmd.PersistentFlags().Lookup("verbose"))
}

func TestScenario(t *testing.T) {
	out, err := execute(t, "scenario")
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "scenario", []byte(out))
}

func TestDump(t *testing.T) {
	out, err := execute(t, "dump", "--expires", "5, 1,3,1")
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "dump", []byte(out))
}

func TestDumpRejectsGarbage(t *testing.T) {
	_, err := execute(t, "dump", "--expires", "5,x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"x"`)
}

func TestDumpRequiresExpires(t *testing.T) {
	_, err := execute(t, "dump")
	require.Error(t, err)
}

func TestSoak(t *testing.T) {
	out, err := execute(t, "soak", "--config", "workload/testdata/soak.yaml", "--seed", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "verifications=40")
}

func TestParseExpires(t *testing.T) {
	got, err := parseExpires(" 4,,-2, 9 ")
	require.NoError(t, err)
	assert.Equal(t, []int64{4, -2, 9}, got)

	got, err = parseExpires("")
	require.NoError(t, err)
	assert.Empty(t, got)
}
