// Package words turns normalized text into ordered word tokens and computes
// each token's optimal recognition point, the character a reader's eye
// fixates on during rapid serial presentation.
package words
