// Package cli implements the interactive terminal client: a REPL over the
// recipe services, with commands for browsing, authoring and curating
// recipes, plus the session-exit flow.
package cli
