// Command folio plays an animated intro in the terminal and then shows a
// portfolio page.
package main

import "folio/internal/cli"

func main() {
	cli.Execute()
}
