// Package integrations provides HTTP clients for upstream read APIs.
//
// # Overview
//
// The shared [Client] does the plumbing every upstream needs: default
// headers, optional pacing via golang.org/x/time/rate, JSON decoding, and
// error classification. API-specific subpackages embed it:
//
//   - [wikipedia]: MediaWiki Action API (random articles, image listings,
//     image URL lookups)
//
// # Errors
//
// Transport failures and non-200 responses wrap [ErrNetwork]; bodies that do
// not decode into the expected shape wrap [ErrMalformedResponse]. Callers
// match them with errors.Is. Nothing is retried: every failure is terminal for
// the unit of work that hit it.
//
// [wikipedia]: github.com/matzehuels/wikicollage/pkg/integrations/wikipedia
package integrations
