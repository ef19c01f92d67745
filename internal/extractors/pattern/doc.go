// Package pattern implements the extractor ports with regular-expression
// matching over section text.
//
// Pattern extraction is deliberately recall-biased: it is cheaper for a
// checker to discard a weak match than to recover one that was never
// extracted. Grammar or NER backed extractors can replace this package
// by implementing the same driven ports.
package pattern
