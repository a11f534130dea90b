// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the conspop voting API server.

Sessions collect ideas, open for voting, and on close compute ranked results
under four methods (score, ranked_choice, borda, condorcet). See package
voting for the result engine.

# Starting the Server

	DATABASE_URL=file:conspop.db ADMIN_KEY_SALT=... SESSION_SLUG_SALT=... go run .

Or against PostgreSQL:

	go run . -t postgres -d "postgres://..." -p 3318

Values may also come from a .env file in the working directory.

# Architecture

  - voting: pure result computation (no I/O)
  - handlers: HTTP handlers and the tally loader feeding the engine
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: Admin keys, voter tokens, IDs
  - db: Driver selection and schema creation
  - cliparse: Configuration parsing
*/
package main
