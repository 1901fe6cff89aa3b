package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/goliatone/go-formwizard/pkg/httpapi"
	"github.com/goliatone/go-formwizard/pkg/openapi"
)

func printSchema(_ context.Context, e env) error {
	var (
		raw []byte
		err error
	)
	switch len(e.args) {
	case 0:
		raw, err = openapi.Document(e.catalog, openapi.Info{BasePath: httpapi.DefaultBasePath})
	case 1:
		def, lookupErr := e.catalog.Lookup(e.args[0])
		if lookupErr != nil {
			return lookupErr
		}
		raw, err = openapi.FormSchema(def)
	default:
		return fmt.Errorf("schema: expected at most one form id, got %d", len(e.args))
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(e.stdout, string(raw))
	return err
}

func listForms(_ context.Context, e env) error {
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPREFIX\tSTEPS\tTITLE")
	for _, def := range e.catalog.List() {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", def.ID, def.Prefix, def.TotalSteps(), def.Title)
	}
	return tw.Flush()
}
