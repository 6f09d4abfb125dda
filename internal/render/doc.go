// Package render draws the two card images printed for every track.
//
// [LabelRenderer] composes a square label: the release year centred on the card, the quoted title stacked above it
// and the artist line below it, both sized with typeset.Fit. [CodeEncoder] produces a QR code of the same side
// length, so labels and codes are interchangeable grid cells.
package render
