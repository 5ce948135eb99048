package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/graphql-go/graphql"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/syssam/gqlshape"
	"github.com/syssam/gqlshape/dialect/relation"
	"github.com/syssam/gqlshape/registry"
	"github.com/syssam/gqlshape/schema/types"
)

type InspectCmd struct {
	Dialect string   `help:"SQL dialect." enum:"postgres,mysql,sqlite" required:""`
	DSN     string   `help:"Data source name." required:"" env:"GQLSHAPE_DSN"`
	Table   []string `help:"Tables to inspect. Every table when empty." short:"t"`
	Out     string   `help:"Write the schema to this file instead of stdout." short:"o" type:"path"`
	Query   bool     `help:"Add a Query type with one field per table." short:"q"`
}

func (c *InspectCmd) Run(ctx context.Context, w io.Writer) error {
	// Dialect names match the names the drivers register under.
	db, err := sql.Open(c.Dialect, c.DSN)
	if err != nil {
		return fmt.Errorf("gqlshape: %w", err)
	}
	defer db.Close()
	drv, err := relation.Open(c.Dialect, db)
	if err != nil {
		return err
	}

	var rels []*relation.Relation
	if len(c.Table) == 0 {
		if rels, err = relation.InspectAll(ctx, drv); err != nil {
			return err
		}
	}
	for _, name := range c.Table {
		rel, err := relation.Inspect(ctx, drv, name)
		if err != nil {
			return err
		}
		rels = append(rels, rel)
	}

	reg := registry.New()
	if err := reg.Register(types.BytesType, graphql.String); err != nil {
		return err
	}
	objs := make([]*graphql.Object, 0, len(rels))
	var errs []error
	for _, rel := range rels {
		obj, err := rel.GraphQLType(gqlshape.WithRegistry(reg))
		if err != nil {
			errs = append(errs, fmt.Errorf("table %q: %w", rel.Table, err))
			continue
		}
		objs = append(objs, obj)
	}
	if err := gqlshape.NewAggregateError(errs...); err != nil {
		return err
	}
	return writeSchema(w, c.Out, c.Query, objs)
}
