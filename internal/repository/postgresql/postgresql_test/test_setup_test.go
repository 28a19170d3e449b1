package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/fieldvolt/workforce-backend-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

// These tests run against a migrated test database (the schema is shared with
// the back-office dashboard). Point TEST_DATABASE_URL at a disposable
// instance; without it the package skips.

var testDB *database.DB

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database tests")
	}

	if testDB == nil {
		db, err := database.NewPostgreSQLDB(dsn)
		require.NoError(t, err, "failed to connect to test database")
		testDB = db
	}

	truncateTables(t, testDB)
	return testDB
}

func truncateTables(t *testing.T, db *database.DB) {
	t.Helper()
	ctx := context.Background()

	tables := []string{
		"faltas",
		"divergencias_escala",
		"horas_extras",
		"justificativas_equipe",
		"justificativa_tipos",
		"turno_realizado_eletricistas",
		"turnos_realizados",
		"slots_escala",
		"escala_equipe_periodos",
		"eletricistas",
		"equipes",
	}
	for _, table := range tables {
		_, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err, "failed to truncate table %s", table)
	}
}

// seedBaseline creates the minimal roster graph most tests need: two teams,
// two electricians, a published period with one slot for electrician 10 on
// the given day, and one closed shift opening (08:00 to 11:30) under team 5.
func seedBaseline(t *testing.T, db *database.DB, day time.Time) {
	t.Helper()
	ctx := context.Background()

	stmts := []struct {
		query string
		args  []interface{}
	}{
		{`INSERT INTO equipes (id, nome) VALUES (5, 'Equipe Leste'), (7, 'Equipe Oeste')`, nil},
		{`INSERT INTO eletricistas (id, nome, status) VALUES (10, 'Joao Silva', 'ativo'), (20, 'Maria Souza', 'ativo')`, nil},
		{`INSERT INTO escala_equipe_periodos (id, equipe_id, status) VALUES (1, 5, 'publicada')`, nil},
		{`INSERT INTO slots_escala (id, escala_equipe_periodo_id, eletricista_id, data, folga) VALUES (1, 1, 10, $1, false)`,
			[]interface{}{day}},
		{`INSERT INTO turnos_realizados (id, equipe_id, data_referencia) VALUES (1, 5, $1)`,
			[]interface{}{day}},
		{`INSERT INTO turno_realizado_eletricistas (id, turno_realizado_id, eletricista_id, aberto_em, fechado_em) VALUES (100, 1, 10, $1, $2)`,
			[]interface{}{day.Add(8 * time.Hour), day.Add(11*time.Hour + 30*time.Minute)}},
	}
	for _, stmt := range stmts {
		_, err := db.Exec(ctx, stmt.query, stmt.args...)
		require.NoError(t, err)
	}
}
