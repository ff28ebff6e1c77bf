// Package pacing computes the per-word presentation schedule: a wpm value
// for every word (ramping from a start rate to a peak rate), the display
// duration each word is held for, and the partitioning of a word sequence
// into bounded-duration chunks.
package pacing
