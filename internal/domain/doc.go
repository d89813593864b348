// Package domain contains the core entities of the review and grading
// system: memory cards, streak state, and quiz attempt structures, along
// with their validation rules.
package domain
