// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Sources

Settings are read in three layers, later layers winning:

 1. an optional .env file in the working directory (never overrides
    variables that are already set)
 2. environment variables
 3. command-line flags

# Settings

	Flag         Environment          Default
	-p           PORT                 3318
	-d           DATABASE_URL         (required)
	-jwt-secret  JWT_SECRET           (required)
	-token-ttl   TOKEN_TTL            12h
	-policy      ACCESS_POLICY_FILE   built-in policy
	-rate        RATE_LIMIT_RPS       5
	-burst       RATE_LIMIT_BURST     10
	-cors        CORS_ORIGINS         *
	             ADMIN_EMAIL          none
	             ADMIN_PASSWORD       none

ADMIN_EMAIL and ADMIN_PASSWORD, when both set, make the server create that
admin account on startup if it does not exist yet.

# Example

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
*/
package cliparse
