package record

import "github.com/nsavage/medio/internal/hash"

// Registry interns record-type names into the uint32 type codes records
// are filtered and dispatched by (spec §4.3: "the core dispatches to
// decoders by type code"). A 4-character alias like Sgmt packs naturally
// into a uint32; a collaborator decoder registered under an arbitrary
// name has no such packing, so Registry derives its type code from the
// name's hash, the same accelerator used for the session's channel-name
// lookup. Named types remain the source of truth — TypeCode fields can
// still be set directly without ever touching a Registry.
type Registry struct {
	byName map[string]uint32
	byCode map[uint32]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]uint32),
		byCode: make(map[uint32]string),
	}
}

// Intern returns the type code name is registered under, assigning one
// derived from hash.ID(name) on first use. A collision against a
// different name already holding that code is resolved by probing
// successive codes; vanishingly rare at realistic decoder-registry
// sizes.
func (r *Registry) Intern(name string) uint32 {
	if code, ok := r.byName[name]; ok {
		return code
	}

	code := uint32(hash.ID(name)) //nolint:gosec
	for {
		existing, taken := r.byCode[code]
		if !taken || existing == name {
			break
		}
		code++
	}

	r.byName[name] = code
	r.byCode[code] = name

	return code
}

// Lookup returns the name interned under code, if any.
func (r *Registry) Lookup(code uint32) (string, bool) {
	name, ok := r.byCode[code]

	return name, ok
}
