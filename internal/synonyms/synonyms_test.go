package synonyms

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntry_Candidates(t *testing.T) {
	assert.Equal(t, []string{"a"}, Entry{Nouns: []string{"a"}, Verbs: []string{"b"}}.Candidates())
	assert.Equal(t, []string{"b"}, Entry{Verbs: []string{"b"}}.Candidates())
	assert.Empty(t, Entry{}.Candidates())
}

func TestChoose(t *testing.T) {
	got, ok := Choose([]string{"magnificent", "grand", "great"}, 7)
	require.True(t, ok)
	assert.Equal(t, "grand", got, "first short candidate wins")

	got, ok = Choose([]string{"magnificent", "spectacular"}, 7)
	require.True(t, ok)
	assert.Equal(t, "magnificent", got, "falls back to the first")

	_, ok = Choose(nil, 7)
	assert.False(t, ok)
}

func TestLoadBuiltin(t *testing.T) {
	th, err := LoadBuiltin()
	require.NoError(t, err)
	assert.Greater(t, th.Len(), 20)

	e, ok := th.Lookup("utilize")
	require.True(t, ok)
	assert.Equal(t, []string{"use", "employ", "apply"}, e.Verbs)

	_, ok = th.Lookup("zzzz")
	assert.False(t, ok)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thesaurus.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Large: {n: [big, huge]}\n"), 0o644))

	th, err := LoadFile(path)
	require.NoError(t, err)
	e, ok := th.Lookup("large")
	require.True(t, ok)
	assert.Equal(t, []string{"big", "huge"}, e.Nouns)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("- not\n- a map\n"), 0o644))
	_, err = LoadFile(bad)
	assert.Error(t, err)
}

func testTransformer() *Transformer {
	return NewTransformer(NewThesaurus(map[string]Entry{
		"large":    {Nouns: []string{"enormous", "big"}},
		"vehicles": {Nouns: []string{"automobiles"}},
		"with":     {Nouns: []string{"alongside"}},
		"cat":      {Nouns: []string{"feline"}},
		"drive":    {Verbs: []string{"steer"}},
		"empty":    {},
	}), Options{})
}

func TestTransformer_Rewrite(t *testing.T) {
	tr := testTransformer()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "prefers short candidate", in: "A large house.", want: "A big house."},
		{name: "falls back to first candidate", in: "Many vehicles here.", want: "Many automobiles here."},
		{name: "keeps capitalisation of replaced word", in: "Large rooms.", want: "Big rooms."},
		{name: "verbs when no nouns", in: "They drive fast.", want: "They steer fast."},
		{name: "stop words untouched", in: "Tea with milk.", want: "Tea with milk."},
		{name: "short tokens untouched", in: "The cat sat.", want: "The cat sat."},
		{name: "entry without candidates untouched", in: "An empty box.", want: "An empty box."},
		{name: "no entry passes through", in: "Nothing matches here.", want: "Nothing matches here."},
		{name: "punctuation preserved", in: "(large), \"large\"!", want: "(big), \"big\"!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.Rewrite(tt.in))
		})
	}
}

func TestTransformer_NilSourcePassesThrough(t *testing.T) {
	var tr *Transformer
	assert.Equal(t, "Unchanged text.", tr.Rewrite("Unchanged text."))
	assert.Equal(t, "Unchanged text.", NewTransformer(nil, Options{}).Rewrite("Unchanged text."))
}

func TestTransformer_Deterministic(t *testing.T) {
	tr := testTransformer()
	in := "Large vehicles drive with large loads."
	assert.Equal(t, tr.Rewrite(in), tr.Rewrite(in))
}
