// Package config resolves run inputs.
//
// Values come from, in order of precedence: command-line flags, action inputs
// passed as INPUT_<NAME> environment variables (name upper-cased, spaces
// replaced by underscores), and the optional iconci.toml manifest found by
// walking up from the working directory. A .env file in the working
// directory is loaded into the environment first; variables already set win.
package config
