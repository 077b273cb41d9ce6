// Package output renders dms-portal command results.
//
// Formatters:
//
//   - table: flattened KEY VALUE rows, sorted by key
//   - json: indented JSON
//   - yaml: YAML via gopkg.in/yaml.v3
package output
