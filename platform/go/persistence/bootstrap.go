package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	sqlassets "github.com/acervolab/acervo-backend/database"
)

// Bootstrap applies the embedded DDL in dependency order inside a single
// transaction: budgets first (contracts reference them), then companies and
// the collections hanging off them. SQL is embedded at build time so binaries
// stay self-contained; the helper is idempotent and safe on startup.
func Bootstrap(ctx context.Context, pool *pgxpool.Pool) error {
	if pool == nil {
		return fmt.Errorf("bootstrap: pool is required")
	}

	var statements []string
	statements = append(statements, splitStatements(sqlassets.BudgetsSQL)...)
	statements = append(statements, splitStatements(sqlassets.CompaniesSQL)...)
	statements = append(statements, splitStatements(sqlassets.ProjectsSQL)...)
	statements = append(statements, splitStatements(sqlassets.ProductsSQL)...)

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply ddl: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// splitStatements breaks an embedded DDL file into executable statements.
// Line comments are stripped first so a ";" inside a comment never produces
// a bogus statement. The embedded files carry no string literals, so cutting
// at "--" is safe.
func splitStatements(raw string) []string {
	var sb strings.Builder
	for _, line := range strings.Split(raw, "\n") {
		if idx := strings.Index(line, "--"); idx >= 0 {
			line = line[:idx]
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	parts := strings.Split(sb.String(), ";")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		stmt := strings.TrimSpace(part)
		if stmt == "" {
			continue
		}
		out = append(out, stmt)
	}
	return out
}
