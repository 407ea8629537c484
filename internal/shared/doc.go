// Package shared holds cross-cutting helpers that belong to no single
// layer of the normalizer.
//
// The testutil subpackage provides a capturing slog handler so tests can
// assert on structured log output. Code here stays free of third-party
// dependencies and must never import other internal packages.
package shared
