// Command snapsim runs jobs on a simulated SNAP card.
package main

import "github.com/sarchlab/snapsim/cmd/snapsim/cmd"

func main() {
	cmd.Execute()
}
