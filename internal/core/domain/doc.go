// Package domain defines the core domain models for the DMS portal.
//
// Domain models are plain values without IO dependencies. This package
// contains:
//
//   - Token: the opaque backend session credential held per browser tab
//   - Dataset, TrainTask, AnalogyTest: backend resources rendered by pages
//   - Navigation states: typed payloads carried across one page transition
//   - Errors: coded domain errors shared by the portal packages
package domain
