// Scentmatch - Fragrance Catalog Matching and Recommendation
// Copyright 2026 Scentmatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

// Package matcher implements the catalog matching core: note
// normalization, taxonomy-driven profile expansion, weighted
// tokenization, a TF-IDF vector space over the catalog, and the scoring
// engine that turns a preference profile into ranked recommendations.
//
// The package is self-contained by design: it depends on no sibling
// internal packages, so the matching pipeline can be exercised and
// tested without transport, storage, or configuration machinery.
// Matching works in five stages:
//
//  1. Normalize catalog note labels (variant folding, tokenization).
//  2. Tokenize each catalog item into weighted terms; weight is
//     expressed by repetition because the vector model is
//     frequency-based.
//  3. Fit a TF-IDF space (unigrams + adjacent bigrams) over the catalog
//     and keep it immutable until the next atomic rebuild.
//  4. Expand the profile through the taxonomy tables, transform it into
//     the fitted space, and score every item by cosine similarity.
//  5. Apply the heuristic penalties, rank, truncate, and hand the
//     candidates to the optional re-ranker.
package matcher
