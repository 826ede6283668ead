package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreFind(t *testing.T) {
	store := NewMemoryStore(Seed())

	got, ok := store.Find(Patent)
	require.True(t, ok)
	require.Equal(t, "Luke", got.CharacterName)

	_, ok = store.Find("MISSING")
	require.False(t, ok)
}

func TestMemoryStoreListIsCopy(t *testing.T) {
	store := NewMemoryStore(Seed())
	items := store.List()
	items[0].TopicName = "changed"

	got, _ := store.Find(items[0].Key)
	require.NotEqual(t, "changed", got.TopicName)
}

func TestSeedContainsDefault(t *testing.T) {
	_, ok := NewMemoryStore(Seed()).Find(DefaultKey)
	require.True(t, ok)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	content := `scenarios:
  - key: copyright
    title: Copyright
    topicName: Copyright Law
    characterName: Dave
    characterId: char-1
    introText: Welcome
    focus: [Facts]
  - key: TRADEMARK
    topicName: Trademark Law
    characterName: Ann
    characterId: char-2
    introText: Hello
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	items, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, Copyright, items[0].Key)
	require.Equal(t, []string{"Facts"}, items[0].Focus)
	require.Equal(t, Key("TRADEMARK"), items[1].Key)
}

func TestLoadFileRejectsInvalidCatalogs(t *testing.T) {
	cases := map[string]string{
		"empty":           "scenarios: []\n",
		"missing persona": "scenarios:\n  - key: COPYRIGHT\n    introText: hi\n",
		"missing default": "scenarios:\n  - key: OTHER\n    characterId: c\n    introText: hi\n",
		"duplicate":       "scenarios:\n  - key: COPYRIGHT\n    characterId: c\n    introText: hi\n  - key: copyright\n    characterId: d\n    introText: hi\n",
		"not yaml":        "scenarios: [",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "scenarios.yaml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
			_, err := LoadFile(path)
			require.Error(t, err)
		})
	}
}
