// Package config loads and validates rsvpd's TOML configuration.
//
// Load resolves the config path (explicit flag, then the user config dir,
// then rsvpd.toml in the working directory), merges the file over Default(),
// expands ~ in paths, and validates the result. Derived locations such as
// the uploads directory and the job database follow from paths.data_dir.
package config
