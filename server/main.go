// Command diagramd serves the diagram API and validates exported diagrams.
//
//	diagramd serve               # HTTP API on the configured store
//	diagramd schema create|drop  # manage tables
//	diagramd check diagram.json  # validate every connection in a file
package main

import "os"

func main() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}
