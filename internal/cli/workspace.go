package cli

import (
	"github.com/noah-isme/shiftwise-api/internal/service"
	"github.com/noah-isme/shiftwise-api/pkg/fixtures"
)

// workspace is an in-memory Shiftwise instance hydrated from fixtures.
type workspace struct {
	doc     fixtures.Document
	source  *fixtures.Source
	store   *service.ShiftStore
	queries *service.QueryService
}

func loadWorkspace(path string, tolerance int) (*workspace, error) {
	doc, err := fixtures.Load(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load fixtures", err)
	}
	source, err := fixtures.NewSource(doc)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "invalid employees", err)
	}
	store := service.NewShiftStore(nil)
	if err := store.Load(doc.Shifts); err != nil {
		return nil, WrapExitError(ExitFailure, "invalid shifts", err)
	}
	queries := service.NewQueryService(store, source, source, source, nil, nil, service.QueryOptions{ToleranceMinutes: tolerance}, nil)
	return &workspace{doc: doc, source: source, store: store, queries: queries}, nil
}
