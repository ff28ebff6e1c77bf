// Package extract converts source documents into normalized UTF-8 text.
//
// Plain text is decoded as-is (BOM-tolerant). PDF pages are extracted in
// page order and joined with newlines, skipping pages without text. EPUB
// archives are walked in spine order with script and style elements removed
// before text collection.
package extract
