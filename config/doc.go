// Package config loads application configuration for the retrieval engine.
//
// Configuration is resolved in three layers, each overriding the previous:
// built-in defaults, an optional TOML file, and RAG_* environment variables.
// The environment layer exists so deployments can tune chunking and retrieval
// without shipping a config file.
package config
