// Package file provides the TOML-backed configuration store.
//
// Configuration lives in a single file, by default ~/.cerval/config.toml.
// Values absent from the file keep their defaults, so a minimal file only
// overrides what it names. Every load and update is validated before use;
// an invalid file fails fast rather than silently misconfiguring a
// validation run.
package file
