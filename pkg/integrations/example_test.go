package integrations_test

import (
	"fmt"

	"github.com/matzehuels/wikicollage/pkg/integrations"
)

func ExampleBuildURL() {
	// Parameters are encoded in sorted order, so identical queries produce
	// identical URLs.
	fmt.Println(integrations.BuildURL("https://en.wikipedia.org/w/api.php", map[string]string{
		"titles": "File:Example.jpg",
		"prop":   "imageinfo",
		"action": "query",
	}))
	// Output:
	// https://en.wikipedia.org/w/api.php?action=query&prop=imageinfo&titles=File%3AExample.jpg
}
