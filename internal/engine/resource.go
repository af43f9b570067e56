package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"guardians/internal/domain"
	"guardians/internal/events"
	"guardians/internal/repo"
)

// Resource runs validate → store → projection for one entity type.
type Resource[T domain.Record[T]] struct {
	kind  domain.Descriptor
	store *repo.Store[T]
	env   *env
}

func newResource[T domain.Record[T]](env *env) *Resource[T] {
	var zero T
	kind := zero.Describe()
	return &Resource[T]{
		kind:  kind,
		store: repo.NewStore[T](kind.Label),
		env:   env,
	}
}

func (r *Resource[T]) Descriptor() domain.Descriptor { return r.kind }
func (r *Resource[T]) Count() int                    { return r.store.Len() }

func (r *Resource[T]) List(ctx context.Context) []T {
	return r.store.List()
}

func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	return r.store.Get(id)
}

// Create fills defaults, validates and inserts. Nothing is stored when
// validation fails or the id is taken.
func (r *Resource[T]) Create(ctx context.Context, in T) (T, error) {
	return r.create(ctx, in, "created")
}

func (r *Resource[T]) create(ctx context.Context, in T, action string) (T, error) {
	var zero T
	item := in.WithDefaults(r.env.defaults())
	if err := item.Validate(); err != nil {
		return zero, err
	}
	if err := r.store.Insert(item); err != nil {
		return zero, err
	}
	r.record(ctx, action, item.Key(), nil)
	return item, nil
}

// Decode turns a JSON field map into a record without storing it. Type
// mismatches surface as validation errors on the offending field.
func (r *Resource[T]) Decode(fields map[string]any) (T, error) {
	return decodeFields[T](r.kind, fields)
}

// CreateFields decodes a JSON field map into a record and creates it.
func (r *Resource[T]) CreateFields(ctx context.Context, fields map[string]any) (any, error) {
	item, err := decodeFields[T](r.kind, fields)
	if err != nil {
		return nil, err
	}
	return r.create(ctx, item, "seeded")
}

// Patch shallow-merges fields onto the stored record. The merged record is
// re-validated before commit unless the engine runs with lax patches.
func (r *Resource[T]) Patch(ctx context.Context, id string, fields map[string]any) (T, error) {
	check := func(merged T) (T, error) {
		merged = merged.WithDefaults(r.env.defaults())
		if !r.env.validatePatches {
			return merged, nil
		}
		return merged, merged.Validate()
	}
	fields = r.keepStamp(fields)
	item, err := r.store.Merge(id, fields, check)
	if err != nil {
		var zero T
		return zero, r.fieldError(err)
	}
	r.record(ctx, "updated", id, events.Payload{"fields": fieldNames(fields)})
	return item, nil
}

// keepStamp drops a null or empty creation timestamp from a patch so the
// stored value survives instead of being re-stamped.
func (r *Resource[T]) keepStamp(fields map[string]any) map[string]any {
	v, ok := fields[r.kind.Stamp]
	if !ok || (v != nil && v != "") {
		return fields
	}
	kept := make(map[string]any, len(fields)-1)
	for k, v := range fields {
		if k != r.kind.Stamp {
			kept[k] = v
		}
	}
	return kept
}

// Delete removes the record; unknown ids succeed without effect.
func (r *Resource[T]) Delete(ctx context.Context, id string) bool {
	removed := r.store.Delete(id)
	if removed {
		r.record(ctx, "deleted", id, nil)
	}
	return removed
}

// apply runs a transition on the stored record and commits it atomically.
func (r *Resource[T]) apply(ctx context.Context, id, action string, payload events.Payload, fn func(*T) error) (T, error) {
	item, err := r.store.Update(id, fn)
	if err != nil {
		return item, err
	}
	r.record(ctx, action, id, payload)
	return item, nil
}

func (r *Resource[T]) record(ctx context.Context, action, id string, payload events.Payload) {
	if err := r.env.chronicle.Append(ctx, r.kind.Name, action, id, payload); err != nil {
		r.env.logger.Warn("chronicle append failed",
			zap.String("kind", r.kind.Name),
			zap.String("action", action),
			zap.String("id", id),
			zap.Error(err))
	}
}

func (r *Resource[T]) fieldError(err error) error {
	var fe repo.FieldError
	if errors.As(err, &fe) {
		return domain.NewValidationError(r.kind.Label, fe.Field, "has invalid type")
	}
	return err
}

func decodeFields[T any](kind domain.Descriptor, fields map[string]any) (T, error) {
	var item T
	data, err := json.Marshal(fields)
	if err != nil {
		return item, fmt.Errorf("encode %s fields: %w", kind.Name, err)
	}
	if err := json.Unmarshal(data, &item); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return item, domain.NewValidationError(kind.Label, typeErr.Field, "has invalid type")
		}
		return item, fmt.Errorf("decode %s fields: %w", kind.Name, err)
	}
	return item, nil
}

func fieldNames(fields map[string]any) []string {
	names := make([]string, 0, len(fields))
	for k := range fields {
		if k == "id" {
			continue
		}
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
