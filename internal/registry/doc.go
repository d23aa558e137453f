// Package registry maps notation type keys to canonical component
// definitions and instantiates concrete plant equipment from them.
//
// Many aliases resolve to one definition; one definition targets exactly
// one plant-model class. Lookups never fall back to a generic definition:
// an unknown key is always a typed error that enumerates every key the
// registry does know, so integration mistakes surface immediately instead
// of producing placeholder equipment.
package registry
