// Package testutil provides shared fixtures for jobmap tests.
//
// The payloads mirror folder exports seen in production: map-notation text
// with prose notification bodies, arrays of single-key variable objects and
// JSON exports carrying raw control bytes inside string literals. Tests across
// processor/, cmd/ and output/ use the same fixtures so a regression shows up
// in every layer at once.
package testutil
