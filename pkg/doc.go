// Package pkg provides the core libraries for wikicollage.
//
// # Overview
//
// wikicollage pulls random Wikipedia articles, keeps a few eligible images
// from each and scatters them on a canvas at random positions, scales and
// rotations. The pkg directory is organized by concern:
//
//  1. [collage] - Domain types, candidate filtering, placement and scale ranges
//  2. [integrations] - Upstream API clients (MediaWiki)
//  3. [pipeline] - One batch: articles → images → URLs → placements
//  4. [board] - Display containers (in-memory, Redis)
//  5. [controls] - The session behind every user-facing trigger
//
// # Architecture
//
//	MediaWiki Action API
//	         ↓
//	    [integrations/wikipedia] (random articles, image listings, URLs)
//	         ↓
//	    [pipeline] (filter, cap, concurrent resolution, placement)
//	         ↓
//	    [board] (ordered items with accent color and article link)
//	         ↑
//	    [controls] (fetch, clear, scale range)
//
// # Quick Start
//
//	src := wikipedia.NewClient(wikipedia.Config{UserAgent: buildinfo.UserAgent()})
//	runner := pipeline.NewRunner(src, nil, nil)
//	sess, _ := controls.New(runner, board.NewMemory(), controls.Options{})
//
//	res, err := sess.FetchMore(ctx)
//	items, _ := sess.Items(ctx)
//
// # Supporting Packages
//
// [errors] - Coded errors shared by adapters, plus input validation.
//
// [observability] - Hook interfaces for pipeline, board and HTTP events.
//
// [buildinfo] - Version metadata injected at build time.
//
// [collage]: https://pkg.go.dev/github.com/matzehuels/wikicollage/pkg/collage
// [integrations]: https://pkg.go.dev/github.com/matzehuels/wikicollage/pkg/integrations
// [integrations/wikipedia]: https://pkg.go.dev/github.com/matzehuels/wikicollage/pkg/integrations/wikipedia
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/wikicollage/pkg/pipeline
// [board]: https://pkg.go.dev/github.com/matzehuels/wikicollage/pkg/board
// [controls]: https://pkg.go.dev/github.com/matzehuels/wikicollage/pkg/controls
// [errors]: https://pkg.go.dev/github.com/matzehuels/wikicollage/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/wikicollage/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/wikicollage/pkg/buildinfo
package pkg
