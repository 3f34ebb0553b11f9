// Package config loads jobmap configuration.
//
// Configuration is built from defaults, then zero or more file layers (JSON or
// YAML, chosen by extension), then JOBMAP_* environment variables. Each file
// layer is checked against an embedded JSON Schema before it is merged, and the
// merged result is checked by Config.Validate.
//
// # Layers
//
// Layers are deep-merged as generic maps, so a later layer only replaces the
// keys it names. Lists replace rather than append:
//
//	loader := config.NewLoader()
//	loader.AddLayer("jobmap.yaml")
//	loader.AddLayer("jobmap.prod.json")
//
//	cfg, err := loader.Load()
//	if err != nil {
//		return err
//	}
//
// # Environment Overrides
//
//	JOBMAP_FORMAT            parser.format
//	JOBMAP_EXTRA_DENYLIST    parser.extra_denylist (comma separated)
//	JOBMAP_OUTPUT_DIRECTORY  output.directory
//	JOBMAP_OUTPUT_INDENT     output.indent
//	JOBMAP_OUTPUT_OVERWRITE  output.overwrite
//	JOBMAP_ENVIRONMENTS      environments (comma separated)
//	JOBMAP_WORKERS           workers
//	JOBMAP_QUEUE_SIZE        queue_size
//	JOBMAP_LOG_LEVEL         log.level
//	JOBMAP_LOG_FORMAT        log.format
//	JOBMAP_METRICS_FILE      metrics_file
//
// # File Safety
//
// Config files must end in .json, .yaml or .yml, be regular files under 1MB,
// and relative paths may not leave the working directory.
package config
