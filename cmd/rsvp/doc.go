// Command rsvp converts documents into RSVP speed-reading videos, either
// synchronously with generate or through the tracked job pipeline with
// submit, status, list, delete, and prune.
package main
