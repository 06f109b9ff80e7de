package persistence

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	sqlassets "github.com/acervolab/acervo-backend/database"
)

func TestSplitStatementsEmbeddedDDL(t *testing.T) {
	files := map[string]string{
		"budgets":   sqlassets.BudgetsSQL,
		"companies": sqlassets.CompaniesSQL,
		"projects":  sqlassets.ProjectsSQL,
		"products":  sqlassets.ProductsSQL,
	}

	for name, raw := range files {
		statements := splitStatements(raw)
		require.NotEmpty(t, statements, "file %s produced no statements", name)
		for _, stmt := range statements {
			require.Truef(t, strings.HasPrefix(stmt, "CREATE"),
				"file %s produced a statement that is not DDL: %q", name, stmt)
			require.NotContains(t, stmt, "--",
				"file %s leaked a comment into a statement", name)
		}
	}
}

func TestSplitStatementsIgnoresCommentSemicolons(t *testing.T) {
	raw := `-- first; second
CREATE TABLE a (id UUID PRIMARY KEY); -- trailing; note
CREATE INDEX a_idx ON a (id);`

	statements := splitStatements(raw)
	require.Equal(t, []string{
		"CREATE TABLE a (id UUID PRIMARY KEY)",
		"CREATE INDEX a_idx ON a (id)",
	}, statements)
}

func TestSplitStatementsSkipsBlankChunks(t *testing.T) {
	require.Empty(t, splitStatements("-- nothing here; at all\n\n"))
	require.Len(t, splitStatements(";;CREATE TABLE b (id UUID);;"), 1)
}
