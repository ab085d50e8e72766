// Package dataset loads three-column surface tables from CSV files or Excel
// workbooks. Columns are taken by position: the first is x, the second y and
// the third z. Header names are kept for labelling but never validated.
package dataset
