// Package app wires configuration, logging, the node factory, the nesting
// rule, the event bus and the record store into documents backed by an
// engine. The command line tool drives documents only through Application.
//
// Bootstrap order:
//
//  1. Configuration (defaults, file, environment)
//  2. Logger
//  3. Node registry and nesting rule
//  4. Event bus
//  5. Record store
//
// Each Document owns one engine sharing the registry, rule, logger and bus.
package app
