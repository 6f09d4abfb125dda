// Package layout computes where label and code cards go on printed pages.
//
// A [Style] names a grid of square cards on an A4 portrait page. [TotalPages] plans the page count for a track list,
// [Chunks] splits the list into page-sized groups, and [PlaceLabels] / [PlaceCodes] turn a group of rendered images
// into a [Page].
//
// Code pages mirror the label page column order: for a row of width W, the card at column c on the label page is
// backed by the code at column W-1-c. Printed double-sided and flipped along the vertical axis, every code then sits
// directly behind its label.
package layout
