// Command agentswarm runs swarm definitions from the command line.
//
//	agentswarm run --config swarm.yaml "I need help with my invoice"
//	agentswarm chat --config swarm.yaml --stream
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
