package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// LogFields flattens err into structured logging fields for the error
// writer. The unwrap chain is always present. When a Postgres driver
// error (pgx or lib/pq) sits in the chain, its server-side diagnostics
// are lifted out too; duplicate mapping in this schema keys on the
// constraint name, so that field matters most.
func LogFields(err error) map[string]any {
	if err == nil {
		return nil
	}

	fields := map[string]any{"error": err.Error()}

	if typed := As(err); typed != nil {
		fields["error_code"] = typed.Code()
	}

	var chain []string
	for e := err; e != nil; e = stdErrors.Unwrap(e) {
		chain = append(chain, fmt.Sprintf("%T: %v", e, e))
	}
	fields["error_chain"] = chain

	var pgxErr *pgconn.PgError
	if stdErrors.As(err, &pgxErr) {
		fields["pg_code"] = pgxErr.Code
		fields["pg_constraint"] = pgxErr.ConstraintName
		fields["pg_table"] = pgxErr.TableName
		fields["pg_detail"] = pgxErr.Detail
		fields["pg_message"] = pgxErr.Message
		return fields
	}

	var pqErr *pq.Error
	if stdErrors.As(err, &pqErr) {
		fields["pg_code"] = string(pqErr.Code)
		fields["pg_constraint"] = pqErr.Constraint
		fields["pg_table"] = pqErr.Table
		fields["pg_detail"] = pqErr.Detail
		fields["pg_message"] = pqErr.Message
	}

	return fields
}
