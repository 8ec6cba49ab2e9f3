// Package config loads snapkit settings.
//
// Sources, later overriding earlier:
//  1. Defaults (Default)
//  2. A YAML file, snapkit.yaml by default
//  3. Environment variables with the SNAPKIT_ prefix
//  4. The plain CI variable, mapped onto "ci"
//
// Environment names drop the prefix, lowercase and use a double underscore
// for nesting: SNAPKIT_SERIALIZER__PRINT_BASIC_PROTOTYPE=true sets
// serializer.print_basic_prototype.
//
// Command-line flags are applied by the CLI on top of the loaded Config.
package config
