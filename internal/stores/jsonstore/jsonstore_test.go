package jsonstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID   int    `json:"id"`
	Name string `json:"nombre"`
}

func TestMissingFileIsEmptyCollection(t *testing.T) {
	c := NewCollection[record](filepath.Join(t.TempDir(), "usuarios.json"), "usuarios")

	items, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "productos.json")
	c := NewCollection[record](path, "productos")

	in := []record{{ID: 1, Name: "Tomates"}, {ID: 2, Name: "Papas"}}
	require.NoError(t, c.Save(context.Background(), in))

	out, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestSaveNilWritesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carritos.json")
	c := NewCollection[record](path, "carritos")

	require.NoError(t, c.Save(context.Background(), nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"carritos": []}`, string(data))
}

func TestSaveCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "pedidos.json")
	c := NewCollection[record](path, "pedidos")

	require.NoError(t, c.Save(context.Background(), []record{{ID: 7, Name: "x"}}))

	out, err := c.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 7, out[0].ID)
}

func TestMissingPropertyIsEmptyCollection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entregas.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"otra": []}`), 0o644))

	c := NewCollection[record](path, "entregas")
	items, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCorruptFileFailsLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usuarios.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	c := NewCollection[record](path, "usuarios")
	_, err := c.Load(context.Background())
	assert.Error(t, err)
}
