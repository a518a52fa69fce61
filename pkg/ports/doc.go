/*
Package ports defines the interfaces the textkit pipeline depends on.

These interfaces decouple the core from the concrete rule families, the cache
backends and the key material used by the crypto rules.

# Key Interfaces

  - Strategy: A pluggable family of rules (case, hash, encoding, crypto...).
  - ResultCache: Stores pipeline results keyed by input and rule string (memory or Redis).
  - KeyProvider: Supplies the RSA key pair used by the encryption rules.
*/
package ports
