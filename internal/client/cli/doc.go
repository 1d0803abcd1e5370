// Package cli provides budgetctl, an interactive command-line client for
// the budget backend.
//
// It signs up or logs in against the REST API, lists and creates
// transactions, and uploads receipt files straight to object storage using
// the presigned URLs the server hands out.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, Backend and runREPL for details.
package cli
