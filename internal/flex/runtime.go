package flex

import (
	"fmt"
	"sort"

	"github.com/paulmach/osm"
	lua "github.com/yuin/gopher-lua"

	"github.com/wegman-software/osm-housenames/internal/document"
)

// Runtime runs a user Lua script over the entities of a document before it
// is frozen. The script may define
//
//	function filter_tags(object) ... end
//
// where object has id, type and tags. Returning a table replaces the tags,
// returning nil or false drops the entity.
type Runtime struct {
	L          *lua.LState
	filterTags lua.LValue
}

// Stats counts what the hook did
type Stats struct {
	Kept    int
	Dropped int
}

// NewRuntime creates a Lua state with the string helpers registered
func NewRuntime() *Runtime {
	L := lua.NewState()
	RegisterHelpers(L)
	return &Runtime{L: L, filterTags: lua.LNil}
}

// Close releases Lua resources
func (r *Runtime) Close() {
	r.L.Close()
}

// LoadFile loads and executes a Lua script
func (r *Runtime) LoadFile(path string) error {
	if err := r.L.DoFile(path); err != nil {
		return fmt.Errorf("failed to load Lua file: %w", err)
	}
	r.filterTags = r.L.GetGlobal("filter_tags")
	return nil
}

// LoadString loads and executes Lua code from a string
func (r *Runtime) LoadString(code string) error {
	if err := r.L.DoString(code); err != nil {
		return fmt.Errorf("failed to load Lua code: %w", err)
	}
	r.filterTags = r.L.GetGlobal("filter_tags")
	return nil
}

// HasFilter reports whether the script defined filter_tags
func (r *Runtime) HasFilter() bool {
	return r.filterTags.Type() == lua.LTFunction
}

// Apply runs filter_tags over every entity and returns a new document. The
// input document is left untouched. Nodes are shared.
func (r *Runtime) Apply(doc *document.Document) (*document.Document, Stats, error) {
	var stats Stats
	if !r.HasFilter() {
		stats.Kept = len(doc.Entities)
		return doc, stats, nil
	}

	entities := make([]*document.Entity, 0, len(doc.Entities))
	for _, e := range doc.Entities {
		tags, keep, err := r.call(e)
		if err != nil {
			return nil, stats, fmt.Errorf("filter_tags failed on %s: %w", e.Key(), err)
		}
		if !keep {
			stats.Dropped++
			continue
		}
		stats.Kept++
		entities = append(entities, &document.Entity{
			Type:     e.Type,
			ID:       e.ID,
			NodeRefs: e.NodeRefs,
			Tags:     tags,
		})
	}

	return document.New(doc.Nodes, entities), stats, nil
}

func (r *Runtime) call(e *document.Entity) (osm.Tags, bool, error) {
	if err := r.L.CallByParam(lua.P{
		Fn:      r.filterTags,
		NRet:    1,
		Protect: true,
	}, r.objectToLua(e)); err != nil {
		return nil, false, err
	}

	ret := r.L.Get(-1)
	r.L.Pop(1)

	switch v := ret.(type) {
	case *lua.LTable:
		return tableToTags(v), true, nil
	case lua.LBool:
		if bool(v) {
			return e.Tags, true, nil
		}
		return nil, false, nil
	case *lua.LNilType:
		return nil, false, nil
	}
	return nil, false, fmt.Errorf("filter_tags must return a table, true, false or nil, got %s", ret.Type())
}

// objectToLua converts an entity to the table passed to filter_tags
func (r *Runtime) objectToLua(e *document.Entity) *lua.LTable {
	L := r.L
	tbl := L.NewTable()
	tbl.RawSetString("id", lua.LNumber(e.ID))
	tbl.RawSetString("type", lua.LString(e.Type))

	tags := L.NewTable()
	for _, tag := range e.Tags {
		// first occurrence wins, matching query.Value
		if tags.RawGetString(tag.Key) == lua.LNil {
			tags.RawSetString(tag.Key, lua.LString(tag.Value))
		}
	}
	tbl.RawSetString("tags", tags)

	nodes := L.NewTable()
	for i, ref := range e.NodeRefs {
		nodes.RawSetInt(i+1, lua.LNumber(ref))
	}
	tbl.RawSetString("nodes", nodes)

	return tbl
}

// tableToTags converts a Lua key/value table into tags sorted by key.
// Non-string keys are ignored; numbers and booleans are stringified.
func tableToTags(tbl *lua.LTable) osm.Tags {
	var tags osm.Tags
	tbl.ForEach(func(key, value lua.LValue) {
		k, ok := key.(lua.LString)
		if !ok {
			return
		}
		switch value.(type) {
		case lua.LString, lua.LNumber, lua.LBool:
			tags = append(tags, osm.Tag{Key: string(k), Value: value.String()})
		}
	})
	sort.Slice(tags, func(i, j int) bool { return tags[i].Key < tags[j].Key })
	return tags
}
