package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestLogFieldsNilError(t *testing.T) {
	if fields := LogFields(nil); fields != nil {
		t.Fatalf("expected nil fields, got %v", fields)
	}
}

func TestLogFieldsIncludesCodeAndChain(t *testing.T) {
	cause := stdErrors.New("boom")
	err := Wrap(CodeDuplicate, cause, "creating product")

	fields := LogFields(err)
	if fields["error_code"] != CodeDuplicate {
		t.Fatalf("expected duplicate code, got %v", fields["error_code"])
	}
	chain, ok := fields["error_chain"].([]string)
	if !ok || len(chain) < 2 {
		t.Fatalf("expected unwrap chain with cause, got %v", fields["error_chain"])
	}
	if _, present := fields["pg_code"]; present {
		t.Fatalf("non-driver error must not carry pg fields")
	}
}

func TestLogFieldsLiftsPgxDiagnostics(t *testing.T) {
	driverErr := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "uq_products_title",
		TableName:      "products",
		Detail:         "Key (title)=(Aria Buds) already exists.",
		Message:        "duplicate key value violates unique constraint",
	}
	err := Wrap(CodeDuplicate, fmt.Errorf("creating product: %w", driverErr), "creating product")

	fields := LogFields(err)
	if fields["pg_code"] != "23505" {
		t.Fatalf("expected sqlstate 23505, got %v", fields["pg_code"])
	}
	if fields["pg_constraint"] != "uq_products_title" {
		t.Fatalf("expected constraint name, got %v", fields["pg_constraint"])
	}
	if fields["pg_table"] != "products" {
		t.Fatalf("expected table name, got %v", fields["pg_table"])
	}
}

func TestLogFieldsLiftsPqDiagnostics(t *testing.T) {
	driverErr := &pq.Error{
		Code:       "23505",
		Constraint: "uq_users_email",
		Table:      "users",
	}
	err := fmt.Errorf("creating user: %w", driverErr)

	fields := LogFields(err)
	if fields["pg_code"] != "23505" {
		t.Fatalf("expected sqlstate 23505, got %v", fields["pg_code"])
	}
	if fields["pg_constraint"] != "uq_users_email" {
		t.Fatalf("expected constraint name, got %v", fields["pg_constraint"])
	}
}
