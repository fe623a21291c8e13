// Package batch implements the batch dependency resolver (C9): given a
// set of UUID -> raw-bytes pairs, it topologically orders the set by
// each characteristic's declared dependencies, detects missing required
// dependencies, and parses each entry with the accumulated results of
// its predecessors visible through the call's Context.
//
// Grounded on
// original_source/.../core/translator.py's _parse_characteristics_batch
// and its helpers (_prepare_characteristic_dependencies,
// _resolve_dependency_order, _find_missing_required_dependencies,
// _log_optional_dependency_gaps, _build_parse_context). The original
// orders with graphlib.TopologicalSorter and falls back to dict
// insertion order on a cycle; Go has no such Python-only graphlib, so
// the topological sort is built here directly with Kahn's algorithm over
// container/list, and "insertion order" is made explicit by taking the
// input as an *orderedmap.OrderedMap rather than a plain map (whose
// Go iteration order is unspecified).
package batch

import (
	"container/list"
	"fmt"

	"github.com/sirupsen/logrus"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/srg/bluetoothsig/pkg/characteristic"
	"github.com/srg/bluetoothsig/pkg/characteristic/registry"
)

var log = logrus.WithField("component", "batch")

// OptionalDependent is implemented by a Characteristic whose optional
// (non-fatal) dependencies differ from its required ones (reported by
// Dependencies()). Characteristics with no optional dependencies need
// not implement it.
type OptionalDependent interface {
	OptionalDependencies() []string
}

// MissingDependenciesError reports that one batch entry's required
// dependencies were not satisfied by either the rest of the batch or
// the base context's already-parsed values.
type MissingDependenciesError struct {
	Name    string
	Missing []string
}

func (e *MissingDependenciesError) Error() string {
	return fmt.Sprintf("%s: missing required dependencies %v", e.Name, e.Missing)
}

// Resolver runs the batch dependency resolution and parse sequence
// against a characteristic registry.
type Resolver struct {
	Registry *registry.Registry
}

// New constructs a Resolver bound to reg.
func New(reg *registry.Registry) *Resolver {
	return &Resolver{Registry: reg}
}

// ParseBatch parses every UUID -> bytes pair in data, ordering the work
// so a characteristic is parsed only after its present dependencies,
// and returns UUID -> parsed value in the same order. Any parse failure
// or missing required dependency aborts the whole batch and returns the
// error, matching the original's "let parse errors propagate" behavior.
func (r *Resolver) ParseBatch(data *orderedmap.OrderedMap[string, []byte], baseCtx *characteristic.Context) (*orderedmap.OrderedMap[string, any], error) {
	chars := make(map[string]characteristic.Characteristic, data.Len())
	required := make(map[string][]string, data.Len())
	optional := make(map[string][]string, data.Len())

	for pair := data.Oldest(); pair != nil; pair = pair.Next() {
		c, ok := r.Registry.GetByUUID(pair.Key)
		if !ok {
			continue
		}
		chars[pair.Key] = c
		if deps := c.Dependencies(); len(deps) > 0 {
			required[pair.Key] = deps
		}
		if od, ok := c.(OptionalDependent); ok {
			if deps := od.OptionalDependencies(); len(deps) > 0 {
				optional[pair.Key] = deps
			}
		}
	}

	order := resolveOrder(data, required, optional)

	var baseOther map[string]any
	if baseCtx != nil {
		baseOther = baseCtx.Dependencies
	}

	results := orderedmap.New[string, any]()
	accumulated := make(map[string]any)

	for _, key := range order {
		raw, ok := data.Get(key)
		if !ok {
			continue
		}
		c, ok := chars[key]
		if !ok {
			continue
		}

		var missing []string
		for _, dep := range required[key] {
			if _, ok := accumulated[dep]; ok {
				continue
			}
			if baseOther != nil {
				if _, ok := baseOther[dep]; ok {
					continue
				}
			}
			missing = append(missing, dep)
		}
		if len(missing) > 0 {
			return nil, &MissingDependenciesError{Name: c.Name(), Missing: missing}
		}

		for _, dep := range optional[key] {
			if _, ok := accumulated[dep]; ok {
				continue
			}
			if baseOther != nil {
				if _, ok := baseOther[dep]; ok {
					continue
				}
			}
			log.WithField("characteristic", c.Name()).WithField("dependency", dep).Debug("optional dependency not available")
		}

		callCtx := buildCallContext(baseCtx, accumulated, baseOther)

		outcome := characteristic.NewPipeline(c).Parse(raw, callCtx)
		if outcome.Err != nil {
			return nil, outcome.Err
		}

		var value any = outcome.Value
		if outcome.Special != nil {
			value = outcome.Special
		}
		accumulated[key] = value
		results.Set(key, value)
	}

	return results, nil
}

// buildCallContext composes the per-call Context the original builds in
// _build_parse_context: a copy of the base context with
// other_characteristics shadowed by the results accumulated so far in
// this batch (accumulated values win over the base context's, since
// they are fresher).
func buildCallContext(base *characteristic.Context, accumulated map[string]any, baseOther map[string]any) *characteristic.Context {
	ctx := characteristic.NewContext()
	if base != nil {
		ctx.Trace = base.Trace
		for k, v := range base.Descriptors {
			ctx.Descriptors[k] = v
		}
	}
	for k, v := range baseOther {
		ctx.Dependencies[k] = v
	}
	for k, v := range accumulated {
		ctx.Dependencies[k] = v
	}
	return ctx
}

// resolveOrder topologically sorts the batch's keys by dependency edges
// restricted to pairs both present in the batch, using Kahn's
// algorithm. On a cycle it logs a warning and falls back to the
// original insertion order, matching the original's broad
// exception-to-input-order fallback.
func resolveOrder(data *orderedmap.OrderedMap[string, []byte], required, optional map[string][]string) []string {
	inputOrder := make([]string, 0, data.Len())
	present := make(map[string]struct{}, data.Len())
	for pair := data.Oldest(); pair != nil; pair = pair.Next() {
		inputOrder = append(inputOrder, pair.Key)
		present[pair.Key] = struct{}{}
	}

	indegree := make(map[string]int, len(inputOrder))
	edges := make(map[string][]string, len(inputOrder)) // dep -> dependents
	for _, key := range inputOrder {
		indegree[key] = 0
	}
	addEdge := func(from, to string) {
		if _, ok := present[from]; !ok {
			return
		}
		edges[from] = append(edges[from], to)
		indegree[to]++
	}
	for _, key := range inputOrder {
		for _, dep := range required[key] {
			addEdge(dep, key)
		}
		for _, dep := range optional[key] {
			addEdge(dep, key)
		}
	}

	queue := list.New()
	for _, key := range inputOrder {
		if indegree[key] == 0 {
			queue.PushBack(key)
		}
	}

	visited := make(map[string]struct{}, len(inputOrder))
	order := make([]string, 0, len(inputOrder))
	for queue.Len() > 0 {
		front := queue.Front()
		queue.Remove(front)
		key := front.Value.(string)
		if _, ok := visited[key]; ok {
			continue
		}
		visited[key] = struct{}{}
		order = append(order, key)
		for _, next := range edges[key] {
			indegree[next]--
			if indegree[next] == 0 {
				queue.PushBack(next)
			}
		}
	}

	if len(order) != len(inputOrder) {
		log.Warn("dependency cycle detected in batch, falling back to input order")
		return inputOrder
	}
	return order
}
