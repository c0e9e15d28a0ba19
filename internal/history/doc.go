// Package history turns the preformatted text of a bill history page into a
// structured bill.
//
// A history block starts with the bill number line, followed by the relating
// clause, then one record per procedural event. Each record opens with a
// date line ("01-15.  A. Introduced by ...") and runs until the next date
// line. Bare year lines set the year for the records that follow them.
package history
