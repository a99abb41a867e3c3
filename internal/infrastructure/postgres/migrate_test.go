package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationNames_Ordenadas(t *testing.T) {
	names, err := migrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "001_schema.sql", names[0])
}

func TestSchema_UnicidadPorEmpresaYCodigo(t *testing.T) {
	sql, err := migrationsFS.ReadFile("migrations/001_schema.sql")
	require.NoError(t, err)
	assert.Contains(t, string(sql), "UNIQUE (company_id, code)")
	assert.Contains(t, string(sql), "CHECK (price >= 0)")
}

func TestSchema_TotalesSinEscala(t *testing.T) {
	sql, err := migrationsFS.ReadFile("migrations/001_schema.sql")
	require.NoError(t, err)
	assert.Contains(t, string(sql), "total             NUMERIC NOT NULL,")
	assert.NotContains(t, string(sql), "NUMERIC(7,3)")
}
