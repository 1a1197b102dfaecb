// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Values are layered with koanf: built-in defaults, then environment
variables, then flags that were explicitly set. Before that, an optional
dotenv file (--env-file, default .env) is loaded into the environment
without overriding variables that already exist.

# CLI Flags and Environment Variables

	-p, --port            PORT                   (default 3000)
	    --host            HOST                   (default 0.0.0.0)
	-d, --database-url    DATABASE_URL           (required)
	-t, --database-type   DATABASE_TYPE          (inferred from the URL)
	    --jwt-secret      JWT_SECRET             (required)
	    --token-ttl       TOKEN_TTL              (default 168h)
	    --ai-url          AI_SERVICE_URL         (empty = simulator only)
	    --ai-timeout      AI_TIMEOUT             (default 20s)
	    --admin-email     ADMIN_EMAIL
	    --admin-password  ADMIN_PASSWORD
	    --auth-rps        AUTH_RATE_LIMIT_RPS    (default 1)
	    --auth-burst      AUTH_RATE_LIMIT_BURST  (default 10)
	    --trust-proxy     TRUST_PROXY            (default false)
	    --env-file                               (default .env)

# Validation

ParseFlags returns an error when:

  - DATABASE_URL or JWT_SECRET is missing
  - the port is outside 1-65535
  - the database type is not postgres or sqlite
  - TOKEN_TTL or AI_TIMEOUT is not positive
  - ADMIN_EMAIL is set without ADMIN_PASSWORD
  - an explicitly requested env file does not exist
*/
package cliparse
