// Package artifacts defines the indicator record produced by extraction and
// the operators used to merge records from multiple passes or documents.
//
// # Absent vs Empty
//
// Each category is a nil slice when nothing was found. A populated category
// always holds at least one entry, so "searched, found nothing" and "not
// searched" encode identically and absent keys are omitted from JSON/YAML.
//
// # Merging
//
// Combine and Merge are a multiset union: present categories are
// concatenated and nothing is deduplicated. Call Finalize at the point a
// record leaves the process (response body, CLI output) to restore the
// sorted, unique order:
//
//	total := artifacts.Combine(a, b)
//	total.Merge(c)
//	total.Finalize()
//
// Sum does both for any number of records.
package artifacts
