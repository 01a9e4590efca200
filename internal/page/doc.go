// Package page models page records and the per-category page registries.
//
// A Page is a tagged union: the common fields live on Page itself and the
// variant-specific data lives in Body, which is exactly one of *Sections,
// *Content, *Linklist or *Link. Decoding rejects fields that are illegal for
// the declared type, so code resolving a page switches on Body instead of
// probing optional fields.
package page
