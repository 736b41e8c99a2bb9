// Package app contains the core application logic: it loads an almanac,
// resolves its seeds and prints the lowest location, decoupled from any
// specific entrypoint like a CLI.
package app
