package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"guardians/internal/domain"
	"guardians/internal/engine"
)

type idPath struct {
	ID string `path:"id" doc:"Record id"`
}

type itemOutput[T any] struct {
	Body T
}

type itemsOutput[T any] struct {
	Body []T
}

func registerCollections(api huma.API, e engine.Engine) {
	registerCollection(api, e.Guilds)
	registerCollection(api, e.Guardians)
	registerCollection(api, e.Bosses)
	registerCollection(api, e.Arsenals)
	registerCollection(api, e.Weapons)
	registerCollection(api, e.Campaigns)
	registerCollection(api, e.Wounds)
	registerCollection(api, e.Battles)
	registerCollection(api, e.Oracles)
	registerCollection(api, e.Relics)
	registerCollection(api, e.Alliances)
}

// registerCollection wires list, get, create, patch and delete for one
// resource. Create and patch bodies are plain field maps; the entity rules
// produce the error messages.
func registerCollection[T domain.Record[T]](api huma.API, r *engine.Resource[T]) {
	kind := r.Descriptor()
	base := "/" + kind.Plural
	tags := []string{tagName(kind)}

	huma.Register(api, huma.Operation{
		OperationID: "list-" + kind.Plural,
		Method:      http.MethodGet,
		Path:        base,
		Summary:     "List " + kind.Plural,
		Tags:        tags,
	}, func(ctx context.Context, _ *struct{}) (*itemsOutput[T], error) {
		return &itemsOutput[T]{Body: r.List(ctx)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-" + kind.Name,
		Method:      http.MethodGet,
		Path:        base + "/{id}",
		Summary:     "Get " + kind.Name + " by id",
		Tags:        tags,
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *idPath) (*itemOutput[T], error) {
		item, err := r.Get(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &itemOutput[T]{Body: item}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-" + kind.Name,
		Method:        http.MethodPost,
		Path:          base,
		Summary:       "Create " + kind.Name,
		Description:   "Takes the " + kind.Name + " fields. The id and timestamps are filled when absent.",
		Tags:          tags,
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		Body map[string]any
	}) (*itemOutput[T], error) {
		in, err := r.Decode(input.Body)
		if err != nil {
			return nil, handleError(err)
		}
		item, err := r.Create(ctx, in)
		if err != nil {
			return nil, handleError(err)
		}
		return &itemOutput[T]{Body: item}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-" + kind.Name,
		Method:      http.MethodPatch,
		Path:        base + "/{id}",
		Summary:     "Update " + kind.Name,
		Description: "Shallow-merges the given fields onto the stored " + kind.Name + ". The id cannot change.",
		Tags:        tags,
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID   string         `path:"id"`
		Body map[string]any `json:"body"`
	}) (*itemOutput[T], error) {
		item, err := r.Patch(ctx, input.ID, input.Body)
		if err != nil {
			return nil, handleError(err)
		}
		return &itemOutput[T]{Body: item}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-" + kind.Name,
		Method:        http.MethodDelete,
		Path:          base + "/{id}",
		Summary:       "Delete " + kind.Name,
		Description:   "Deleting an unknown id succeeds.",
		Tags:          tags,
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *idPath) (*struct{}, error) {
		r.Delete(ctx, input.ID)
		return &struct{}{}, nil
	})
}

func tagName(kind domain.Descriptor) string {
	return strings.ToUpper(kind.Plural[:1]) + kind.Plural[1:]
}
