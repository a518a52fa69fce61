/*
Package transformers provides the built-in rule families of textkit.

Each family is a table-driven ports.Strategy: a name, a set of
domain.TransformationRule entries and one handler per rule. Families share a
single dispatch path that substitutes default arguments and enforces arity
before the handler runs, so handlers only deal with well-formed input.

# Families

  - basic: t, l, u
  - case: p, c, s, k
  - string: R, r, i, n
  - markup: strip-tags, he, hd, e, d
  - hash: sha256, b64e, b64d
  - json: json, jc
  - encoding: iconv, to-utf8, from-utf8, detect-encoding
  - lineending: tr and the newline conversions
  - width: fh, hf, j, J
  - crypto: enc, dec (only when a key provider is configured)
*/
package transformers
