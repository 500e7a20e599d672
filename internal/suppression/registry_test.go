package suppression_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farcloser/cribrum/internal/suppression"
	"github.com/farcloser/cribrum/internal/types"
)

func TestRegistryPaths(t *testing.T) {
	registry := suppression.Registry{GlobalDir: "/home/me/.config/cribrum", SolutionDir: "/src"}

	location, err := registry.Path(suppression.StorageGlobal, "", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/me/.config/cribrum", "suppressions.cfg"), location)

	location, err = registry.Path(suppression.StorageSolution, "", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/src", "suppressions.cfg"), location)

	location, err = registry.Path(suppression.StorageProject, "/src/engine", "engine")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/src/engine", "engine_suppressions.cfg"), location)

	_, err = registry.Path(suppression.Storage(42), "/src/engine", "engine")
	require.ErrorIs(t, err, suppression.ErrInvalidScope)

	_, err = suppression.Registry{}.Path(suppression.StorageSolution, "", "")
	require.ErrorIs(t, err, suppression.ErrUnresolvedStorage)
}

func TestRegistryMissingFilesAreEmpty(t *testing.T) {
	root := t.TempDir()
	registry := suppression.Registry{GlobalDir: filepath.Join(root, "global"), SolutionDir: filepath.Join(root, "sln")}

	for _, storage := range []suppression.Storage{
		suppression.StorageGlobal,
		suppression.StorageSolution,
		suppression.StorageProject,
	} {
		set, err := registry.Load(context.Background(), storage, filepath.Join(root, "proj"), "proj")
		require.NoError(t, err, storage.String())
		assert.Equal(t, 0, set.Len(), storage.String())
	}
}

func TestRegistryLoadEffectiveUnionsTiers(t *testing.T) {
	root := t.TempDir()
	registry := suppression.Registry{GlobalDir: filepath.Join(root, "global"), SolutionDir: root}
	projectDir := filepath.Join(root, "engine")

	write := func(location, content string) {
		t.Helper()
		require.NoError(t, os.MkdirAll(filepath.Dir(location), 0o755))
		require.NoError(t, os.WriteFile(location, []byte(content), 0o644))
	}

	write(filepath.Join(root, "global", "suppressions.cfg"), "missingInclude\n")
	write(filepath.Join(root, "suppressions.cfg"), "unusedFunction\nskip-file:generated\n")
	write(filepath.Join(projectDir, "engine_suppressions.cfg"), "nullPointer:a.cpp:12\nmissingInclude\n")

	effective, err := registry.LoadEffective(context.Background(), projectDir, "engine")
	require.NoError(t, err)

	assert.Equal(t, []string{"missingInclude", "nullPointer:a.cpp:12", "unusedFunction"}, effective.SortedRules())
	assert.True(t, effective.MatchesFile("/src/generated/x.cpp"))
}

func TestRegistryUnconfiguredTiersAreSkipped(t *testing.T) {
	effective, err := suppression.Registry{}.LoadEffective(context.Background(), t.TempDir(), "engine")
	require.NoError(t, err)
	assert.Equal(t, 0, effective.Len())
}

func TestRuleShapes(t *testing.T) {
	diagnostic := &types.Diagnostic{MessageID: "nullPointer", FilePath: `src\core\a.cpp`, Line: 12}

	tests := []struct {
		scope   suppression.Scope
		rule    string
		storage suppression.Storage
	}{
		{suppression.ScopeThisMessage, "nullPointer:a.cpp:12", suppression.StorageProject},
		{suppression.ScopeThisMessageSolutionWide, "nullPointer:a.cpp:12", suppression.StorageSolution},
		{suppression.ScopeThisMessageGlobally, "nullPointer:a.cpp:12", suppression.StorageGlobal},
		{suppression.ScopeThisTypeOfMessageFileWide, "nullPointer:a.cpp", suppression.StorageProject},
		{suppression.ScopeThisTypeOfMessageProjectWide, "nullPointer", suppression.StorageProject},
		{suppression.ScopeThisTypeOfMessagesSolutionWide, "nullPointer", suppression.StorageSolution},
		{suppression.ScopeThisTypeOfMessagesGlobally, "nullPointer", suppression.StorageGlobal},
		{suppression.ScopeAllMessagesThisFileProjectWide, "*:a.cpp", suppression.StorageProject},
		{suppression.ScopeAllMessagesThisFileSolutionWide, "*:a.cpp", suppression.StorageSolution},
		{suppression.ScopeAllMessagesThisFileGlobally, "*:a.cpp", suppression.StorageGlobal},
	}

	for _, tc := range tests {
		t.Run(tc.scope.String(), func(t *testing.T) {
			rule, err := suppression.Rule(diagnostic, tc.scope)
			require.NoError(t, err)
			assert.Equal(t, tc.rule, rule)

			storage, err := suppression.StorageFor(tc.scope)
			require.NoError(t, err)
			assert.Equal(t, tc.storage, storage)

			parsed, err := suppression.ParseScope(tc.scope.String())
			require.NoError(t, err)
			assert.Equal(t, tc.scope, parsed)
		})
	}

	_, err := suppression.Rule(diagnostic, suppression.Scope(0))
	require.ErrorIs(t, err, suppression.ErrInvalidScope)

	_, err = suppression.ParseScope("everywhere")
	require.ErrorIs(t, err, suppression.ErrInvalidScope)

	assert.Len(t, suppression.ScopeNames(), 10)
}
