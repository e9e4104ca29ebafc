// Command pynuxc is the Pynux compiler's command-line entry point.
package main

import "github.com/ruapotato/Pynux/pkg/cmd"

func main() {
	cmd.Execute()
}
