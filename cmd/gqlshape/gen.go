package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/graphql-go/graphql"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/gqlshape"
	"github.com/syssam/gqlshape/contrib/gqlgen"
	"github.com/syssam/gqlshape/load"
	"github.com/syssam/gqlshape/registry"
	"github.com/syssam/gqlshape/sdl"
)

type GenCmd struct {
	File   string `arg:"" type:"existingfile" help:"YAML description file."`
	Out    string `help:"Write the schema to this file instead of stdout." short:"o" type:"path"`
	Query  bool   `help:"Add a Query type with one field per entity." short:"q"`
	Check  bool   `help:"Validate the derived schema before writing it."`
	GQLGen string `help:"gqlgen.yml to bind scalars and models into." name:"gqlgen" type:"path"`
	Watch  bool   `help:"Watch the file and regenerate on change." short:"w"`
	Jobs   int    `help:"Entities derived concurrently." default:"4"`
}

func (c *GenCmd) Run(ctx context.Context, w io.Writer) error {
	err := c.generate(ctx, w)
	if !c.Watch {
		return err
	}
	if err != nil {
		slog.Error("gqlshape: generate", "file", c.File, "error", err)
	}
	return watch(ctx, c.File, func() {
		if err := c.generate(ctx, w); err != nil {
			slog.Error("gqlshape: generate", "file", c.File, "error", err)
			return
		}
		slog.Info("gqlshape: regenerated", "file", c.File)
	})
}

func (c *GenCmd) generate(ctx context.Context, w io.Writer) error {
	doc, err := load.LoadFile(c.File)
	if err != nil {
		return err
	}
	entities, err := doc.Build(registry.New())
	if err != nil {
		return err
	}
	objs, err := deriveAll(ctx, entities, c.Jobs)
	if err != nil {
		return err
	}
	if c.Check {
		if _, err := sdl.Validate(sdl.Query(objs...)); err != nil {
			return err
		}
	}
	if err := writeSchema(w, c.Out, c.Query, objs); err != nil {
		return err
	}
	if c.GQLGen == "" {
		return nil
	}
	return c.bind(entities, objs)
}

func (c *GenCmd) bind(entities []*load.Entity, objs []*graphql.Object) error {
	cfg, err := gqlgen.Load(c.GQLGen)
	if err != nil {
		return err
	}
	schemaPath := c.Out
	if rel, err := filepath.Rel(filepath.Dir(c.GQLGen), c.Out); c.Out != "" && err == nil {
		schemaPath = rel
	}
	bindings := make([]gqlgen.Binding, len(objs))
	for i := range objs {
		bindings[i] = gqlgen.Binding{Object: objs[i], Entity: entities[i]}
	}
	bound := gqlgen.Bind(cfg, schemaPath, bindings...)
	slog.Debug("gqlshape: bound gqlgen models", "config", c.GQLGen, "types", bound)
	return gqlgen.Save(c.GQLGen, cfg)
}

// deriveAll derives every entity, at most jobs at a time. All failures are
// reported together.
func deriveAll(ctx context.Context, entities []*load.Entity, jobs int) ([]*graphql.Object, error) {
	objs := make([]*graphql.Object, len(entities))
	errs := make([]error, len(entities))
	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, e := range entities {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			objs[i], errs[i] = e.Derive()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := gqlshape.NewAggregateError(errs...); err != nil {
		return nil, err
	}
	return objs, nil
}

func writeSchema(w io.Writer, out string, query bool, objs []*graphql.Object) error {
	roots := make([]graphql.Type, 0, len(objs)+1)
	if query {
		roots = append(roots, sdl.Query(objs...))
	} else {
		for _, o := range objs {
			roots = append(roots, o)
		}
	}
	if out == "" {
		return sdl.Print(w, roots...)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("gqlshape: %w", err)
	}
	if err := sdl.Print(f, roots...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
