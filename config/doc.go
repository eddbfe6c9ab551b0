// Package config loads swarm definitions from YAML and builds the agent
// graph they describe.
//
// A definition names the queen, lists the agents and declares which agents
// each one may hand over to:
//
//	provider: openai
//	model: gpt-4o-mini
//	max_turns: 20
//	queen: triage
//	context:
//	  company: ACME
//	agents:
//	  - name: triage
//	    instructions: "Route {{.company}} customers to the right agent."
//	    handovers: [billing]
//	  - name: billing
//	    description: Handles invoices and refunds.
//	    handovers: [triage]
//	    context_tools: true
//
// Handovers may form cycles; agents are created first and wired afterwards.
package config
