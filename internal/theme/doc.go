// Package theme loads the theme and font registries from their discovery
// directories.
//
// A theme is one metadata file (.json, .yaml or .yml) whose stem is the theme
// id. A font family is one subdirectory holding font files and an optional
// family.yaml.
package theme
