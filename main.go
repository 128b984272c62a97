// draftkit is a snake draft assistant: a draft service with tiering,
// recommendations, keeper selection and draft grades.
package main

import (
	"os"

	"github.com/Billy-Davies-2/draftkit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
