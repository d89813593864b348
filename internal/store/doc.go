// Package store defines the persistence interfaces of the review core and
// the shared error taxonomy implementations map onto. The core itself never
// issues queries; these interfaces describe the external collaborator
// contract of reading card/streak records and writing updated fields back.
package store
