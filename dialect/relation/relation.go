// Package relation derives description entities from database tables.
//
// A table is inspected with Atlas and every column becomes an attribute:
// nullable columns are optional, primary key columns are marked as primary
// keys and are never optional, foreign key columns are marked as foreign keys.
// The entity is named after the singular of the table name, so a "users"
// table yields a "User" type.
package relation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"
	"github.com/go-openapi/inflect"

	"github.com/syssam/gqlshape"
	"github.com/syssam/gqlshape/dialect"
	"github.com/syssam/gqlshape/schema/types"
)

// ErrTableNotFound is returned when an inspected table does not exist.
var ErrTableNotFound = errors.New("gqlshape: table not found")

// TableNotFoundError is returned when an inspected table does not exist.
type TableNotFoundError struct {
	Table string
}

// Error returns the error string.
func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("gqlshape: table %q not found", e.Table)
}

// Is reports whether the target error matches TableNotFoundError.
func (e *TableNotFoundError) Is(err error) bool {
	return err == ErrTableNotFound
}

// IsTableNotFound returns true if the error is a TableNotFoundError.
func IsTableNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *TableNotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrTableNotFound)
}

// Relation is a Struct derived from a table.
type Relation struct {
	*gqlshape.Struct
	// Table is the name of the inspected table.
	Table string
}

// Open returns an Atlas driver for db. name is one of the dialect names.
func Open(name string, db *sql.DB) (migrate.Driver, error) {
	if err := dialect.Check(name); err != nil {
		return nil, err
	}
	var (
		drv migrate.Driver
		err error
	)
	switch name {
	case dialect.SQLite:
		drv, err = sqlite.Open(db)
	case dialect.MySQL:
		drv, err = mysql.Open(db)
	case dialect.Postgres:
		drv, err = postgres.Open(db)
	}
	if err != nil {
		return nil, fmt.Errorf("relation: open %s driver: %w", name, err)
	}
	return drv, nil
}

// Inspect reads table from the current schema.
func Inspect(ctx context.Context, insp schema.Inspector, table string) (*Relation, error) {
	s, err := insp.InspectSchema(ctx, "", &schema.InspectOptions{Tables: []string{table}})
	if err != nil {
		return nil, fmt.Errorf("relation: inspect %q: %w", table, err)
	}
	t, ok := s.Table(table)
	if !ok {
		return nil, &TableNotFoundError{Table: table}
	}
	return FromTable(t), nil
}

// InspectAll reads every table of the current schema, in schema order.
func InspectAll(ctx context.Context, insp schema.Inspector) ([]*Relation, error) {
	s, err := insp.InspectSchema(ctx, "", nil)
	if err != nil {
		return nil, fmt.Errorf("relation: inspect schema: %w", err)
	}
	rels := make([]*Relation, 0, len(s.Tables))
	for _, t := range s.Tables {
		rels = append(rels, FromTable(t))
	}
	return rels, nil
}

// FromTable converts an inspected table.
func FromTable(t *schema.Table) *Relation {
	primary := make(map[string]bool)
	if t.PrimaryKey != nil {
		for _, part := range t.PrimaryKey.Parts {
			if part.C != nil {
				primary[part.C.Name] = true
			}
		}
	}
	foreign := make(map[string]bool)
	for _, fk := range t.ForeignKeys {
		for _, c := range fk.Columns {
			foreign[c.Name] = true
		}
	}
	s := gqlshape.NewStruct(TypeName(t.Name))
	for _, c := range t.Columns {
		node := ColumnNode(c.Type)
		if c.Type != nil && c.Type.Null && !primary[c.Name] {
			node = types.Optional(node)
		}
		if primary[c.Name] || foreign[c.Name] {
			node = types.Annotate(node, types.Meta{PrimaryKey: primary[c.Name], ForeignKey: foreign[c.Name]})
		}
		s.Attribute(c.Name, node)
	}
	slog.Debug("gqlshape: inspected table", "table", t.Name, "columns", len(t.Columns))
	return &Relation{Struct: s, Table: t.Name}
}

// TypeName returns the entity name of a table: "blog_posts" becomes "BlogPost".
func TypeName(table string) string {
	return inflect.Camelize(inflect.Singularize(table))
}

// ColumnNode returns the description node of a column type. Column types
// with no node of their own are opaque and fail derivation unless mapped.
func ColumnNode(ct *schema.ColumnType) types.Node {
	if ct == nil || ct.Type == nil {
		return types.Unknown("unknown")
	}
	switch t := ct.Type.(type) {
	case *schema.IntegerType:
		return types.Int64()
	case *schema.StringType, *schema.EnumType:
		return types.String()
	case *schema.BoolType:
		return types.Bool()
	case *schema.FloatType, *schema.DecimalType:
		return types.Float()
	case *schema.TimeType:
		if strings.EqualFold(t.T, "date") {
			return types.DateOnly()
		}
		return types.Time()
	case *schema.JSONType:
		return types.Map()
	case *schema.UUIDType:
		return types.UUID()
	case *schema.BinaryType:
		return types.Bytes()
	case *schema.UnsupportedType:
		return types.Unknown(t.T)
	default:
		return types.Unknown(ct.Raw)
	}
}
