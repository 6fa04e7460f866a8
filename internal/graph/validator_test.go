package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_AcyclicGraph(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
	}{
		{
			name:  "empty graph",
			nodes: []Node{},
		},
		{
			name: "single node",
			nodes: []Node{
				{ID: "a"},
			},
		},
		{
			name: "linear chain",
			nodes: []Node{
				{ID: "a"},
				{ID: "b", DependsOn: []string{"a"}},
				{ID: "c", DependsOn: []string{"b"}},
			},
		},
		{
			name: "diamond",
			nodes: []Node{
				{ID: "a"},
				{ID: "b", DependsOn: []string{"a"}},
				{ID: "c", DependsOn: []string{"a"}},
				{ID: "d", DependsOn: []string{"b", "c"}},
			},
		},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.Validate(tt.nodes)
			assert.True(t, result.Acyclic)
			assert.Empty(t, result.CycleMembers)
		})
	}
}

func TestValidate_TwoNodeCycle(t *testing.T) {
	nodes := []Node{
		{ID: "a", DependsOn: []string{"b"}},
		{ID: "b", DependsOn: []string{"a"}},
	}

	result := NewValidator().Validate(nodes)

	require.False(t, result.Acyclic)
	assert.Contains(t, result.CycleMembers, "a")
	assert.Contains(t, result.CycleMembers, "b")
}

func TestValidate_CycleBehindChain(t *testing.T) {
	nodes := []Node{
		{ID: "a"},
		{ID: "b", DependsOn: []string{"a", "d"}},
		{ID: "c", DependsOn: []string{"b"}},
		{ID: "d", DependsOn: []string{"c"}},
	}

	result := NewValidator().Validate(nodes)

	require.False(t, result.Acyclic)
	for _, member := range []string{"b", "c", "d"} {
		assert.Contains(t, result.CycleMembers, member)
	}
	assert.NotContains(t, result.CycleMembers, "a")
}

func TestDetectCycle_SelfLoop(t *testing.T) {
	nodes := []Node{
		{ID: "a", DependsOn: []string{"a"}},
	}

	cycle := NewValidator().DetectCycle(nodes)
	assert.NotEmpty(t, cycle)
	assert.Contains(t, cycle, "a")
}

func TestDetectCycle_UnknownDependenciesIgnored(t *testing.T) {
	nodes := []Node{
		{ID: "a", DependsOn: []string{"ghost"}},
		{ID: "b", DependsOn: []string{"a"}},
	}

	cycle := NewValidator().DetectCycle(nodes)
	assert.Empty(t, cycle)
}

func TestTopologicalSort(t *testing.T) {
	nodes := []Node{
		{ID: "c", DependsOn: []string{"b"}},
		{ID: "a"},
		{ID: "b", DependsOn: []string{"a"}},
	}

	order, err := NewValidator().TopologicalSort(nodes)
	require.NoError(t, err)
	require.Len(t, order, 3)

	pos := map[string]int{}
	for i, id := range order {
		pos[id] = i
	}
	assert.Less(t, pos["a"], pos["b"])
	assert.Less(t, pos["b"], pos["c"])
}

func TestTopologicalSort_CycleFails(t *testing.T) {
	nodes := []Node{
		{ID: "a", DependsOn: []string{"b"}},
		{ID: "b", DependsOn: []string{"a"}},
	}

	_, err := NewValidator().TopologicalSort(nodes)
	assert.Error(t, err)
}

func TestValidateDependencies(t *testing.T) {
	v := NewValidator()

	valid := []Node{
		{ID: "a"},
		{ID: "b", DependsOn: []string{"a"}},
	}
	assert.NoError(t, v.ValidateDependencies(valid))

	dangling := []Node{
		{ID: "a", DependsOn: []string{"missing"}},
	}
	err := v.ValidateDependencies(dangling)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}
