// Package errors provides the classified error type used across the site pipeline.
//
// Every failure the loader, registries, renderer or context builder report is a
// ClassifiedError carrying a category that maps onto one of the pipeline's error kinds:
//
//   - CategoryNotFound:   missing file, page, theme, font or menu entry
//   - CategoryValidation: a legal-looking request the data model forbids (e.g. resolving a link page)
//   - CategoryFileSystem: read/write/copy faults other than not-found
//   - CategoryConfig:     malformed JSON, malformed colors, empty registries
//
// HTTP and CLI adapters turn categories into status codes and exit codes.
//
// Example usage:
//
//	err := errors.NotFoundError("page not found").
//		WithContext("category", "blog").
//		WithContext("page", id).
//		Build()
package errors
