// Package config loads conf-sync's settings.
//
// Layers are applied in order, later ones winning: the embedded defaults,
// the user's config.toml, the source tree's .conf-sync.toml, CONF_SYNC_*
// environment variables and finally command line overrides. Lists read from
// files are appended to the ones loaded before them.
package config
