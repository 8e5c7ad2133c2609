/*
Package bounceflow renders MIDI items on a hardware-synth track to audio
through the external insert in the track's first FX slot, then rebuilds the
rest of the FX chain on the rendered track.

It implements a guarded sequential workflow: every precondition (track
selection, insert position, MIDI-only items, helper scripts) is checked
before any session state is touched, downstream FX are transiently
bypassed for the render, and everything the workflow disabled is restored
afterwards inside one undo transaction.

# Concept

The engine is host-agnostic. All session access goes through the ports.Host
interface, so the same workflow runs against a live DAW binding or the
in-memory host used for testing. This hexagonal layout also lets the
workflow be embedded in any interface: CLI, HTTP server, or MCP agent
infrastructure.

# Key Features

  - Guarded execution: no mutation until every precondition holds.
  - Two transfer strategies: per-slot FX copy, or a chunk splice that
    preserves FX parameter envelopes.
  - Dual render passes for capturing the same material twice through the
    hardware chain.
  - Lifecycle hooks for logging and metrics on every stage.

# Usage

Initialize the engine with a host binding and run a pass.

	package main

	import (
		"context"
		"log"
		"os"

		"github.com/jfellner/bounceflow"
		"github.com/jfellner/bounceflow/pkg/domain"
	)

	func main() {
		host := newMyHostBinding() // your ports.Host implementation

		eng, err := bounceflow.New(host, bounceflow.WithStrategy("chunk"))
		if err != nil {
			log.Fatal(err)
		}

		runner := bounceflow.NewRunner()
		runner.Output = os.Stdout

		report, err := runner.Run(context.Background(), eng, domain.PassPrimary)
		if err != nil {
			log.Fatal(err)
		}
		if !report.Succeeded() {
			os.Exit(1)
		}
	}
*/
package bounceflow
