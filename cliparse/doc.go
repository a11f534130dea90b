// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Sources

Values are taken, in order of precedence, from CLI flags, the process
environment and an optional dotenv file (-env-file, default ".env"). A
missing dotenv file is ignored.

	-p                PORT               Server port (default 3318)
	-d                DATABASE_URL       Connection string (required)
	-t                DATABASE_TYPE      sqlite (default) or postgres
	-admin-salt       ADMIN_KEY_SALT     Admin key HMAC secret (required)
	-slug-salt        SESSION_SLUG_SALT  Share slug secret (required)
	-results-timeout  RESULTS_TIMEOUT    Bound on result computation (default 5s)
	-base-url         BASE_URL           Prefix for share URLs
*/
package cliparse
