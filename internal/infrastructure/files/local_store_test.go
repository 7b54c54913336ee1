package files_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/controle-estoque/internal/infrastructure/files"
)

func TestLocalStore_SaveCopiaConNombreUnico(t *testing.T) {
	store, err := files.NewLocalStore(filepath.Join(t.TempDir(), "adjuntos"))
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "pop.pdf")
	require.NoError(t, os.WriteFile(src, []byte("contenido"), 0o644))

	a, err := store.Save(src)
	require.NoError(t, err)
	b, err := store.Save(src)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, "_pop.pdf"))
	assert.Equal(t, store.Dir(), filepath.Dir(a))

	data, err := os.ReadFile(a)
	require.NoError(t, err)
	assert.Equal(t, "contenido", string(data))
	assert.True(t, store.Exists(src), "el original no se mueve")
}

func TestLocalStore_ExistsYDelete(t *testing.T) {
	store, err := files.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	assert.False(t, store.Exists(filepath.Join(store.Dir(), "nada.txt")))
	assert.False(t, store.Exists(store.Dir()), "un directorio no es un archivo")

	p := filepath.Join(store.Dir(), "x.txt")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	assert.True(t, store.Exists(p))

	require.NoError(t, store.Delete(p))
	assert.False(t, store.Exists(p))
	assert.NoError(t, store.Delete(p), "borrar dos veces no falla")
}

func TestLocalStore_SaveOrigenInexistente(t *testing.T) {
	store, err := files.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save(filepath.Join(t.TempDir(), "no-existe.pdf"))
	assert.Error(t, err)
}
