// Package wikipedia provides a client for the MediaWiki Action API.
//
// Three read-only query shapes are used, all with format=json and origin=*:
//
//	list=random&rnnamespace=0&rnlimit=N          random content articles
//	titles=<title>&prop=images                   files referenced by an article
//	titles=<file>&prop=imageinfo&iiprop=url      direct URL of one file
//
// Page-keyed responses (query.pages) are consumed by value; the page id keys
// are ignored. No authentication is needed.
package wikipedia
