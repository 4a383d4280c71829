// Package sites holds the closed set of supported source sites. Each
// language maps to one Variant that knows how to build manga and chapter
// URLs and how to extract the ordered page images from a chapter page.
package sites
