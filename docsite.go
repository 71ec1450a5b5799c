// Package docsite provides tooling for the static artifacts a generated
// documentation website ships to the browser: the search index consumed by
// the client-side search page, and the loader configuration that pulls in
// the math typesetting library and registers custom TeX macros with it.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, toml/).
package docsite
