// Package config loads the launcher configuration file. The file is
// YAML, validated against a schema before it is mapped onto the typed
// Config struct, so commands never see half-formed configuration.
//
// A minimal config file looks like:
//
//	connection:
//	  account: myorg-myaccount
//	  user: runner
//	  password:
//	    $env: SNOWFLAKE_PASSWORD
//
// Values of the form {$env: VAR} are replaced with the environment
// variable VAR before validation. Optional keys (image, logLevel,
// readyTimeoutSeconds, syslog) have defaults, see Schema() for the full
// surface. Get and Set edit single values by dotted key path on behalf
// of the 'config get' and 'config set' commands.
package config
